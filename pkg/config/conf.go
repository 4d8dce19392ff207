// Package config reads and writes the pipeline configuration file kept in
// the tool's home directory.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lendwatch/lendctl/pkg/pipeline"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600
)

var validate = validator.New()

// LogisticConfig holds the baseline model hyperparameters.
type LogisticConfig struct {
	LearningRate float64 `yaml:"learning_rate" validate:"gt=0"`
	Epochs       int     `yaml:"epochs" validate:"gt=0"`
}

// ForestConfig holds the bagged ensemble hyperparameters.
type ForestConfig struct {
	Trees    int `yaml:"trees" validate:"gt=0"`
	MaxDepth int `yaml:"max_depth" validate:"gte=0"`
}

// BoostConfig holds the boosted ensemble hyperparameters.
type BoostConfig struct {
	Trees        int     `yaml:"trees" validate:"gt=0"`
	MaxDepth     int     `yaml:"max_depth" validate:"gt=0"`
	LearningRate float64 `yaml:"learning_rate" validate:"gt=0"`
}

// Config is the pipeline and training configuration.
type Config struct {
	Seed      int64            `yaml:"seed"`
	TestRatio float64          `yaml:"test_ratio" validate:"gt=0,lt=1"`
	Weights   pipeline.Weights `yaml:"weights"`
	Bands     pipeline.Bands   `yaml:"bands"`
	Logistic  LogisticConfig   `yaml:"logistic"`
	Forest    ForestConfig     `yaml:"forest"`
	Boost     BoostConfig      `yaml:"boost"`
}

// Default returns the documented configuration defaults.
func Default() *Config {
	return &Config{
		Seed:      42,
		TestRatio: 0.3,
		Weights:   pipeline.DefaultWeights(),
		Bands:     pipeline.DefaultBands(),
		Logistic:  LogisticConfig{LearningRate: 0.1, Epochs: 200},
		Forest:    ForestConfig{Trees: 100, MaxDepth: 8},
		Boost:     BoostConfig{Trees: 100, MaxDepth: 3, LearningRate: 0.1},
	}
}

// Validate checks the struct tags plus the cross-field invariants the tags
// cannot express: non-negative weights and strictly increasing band cuts.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if c.Weights.Credit < 0 || c.Weights.DTI < 0 || c.Weights.LTV < 0 {
		return errors.New("risk score weights must be non-negative")
	}
	if !(c.Bands.Fair < c.Bands.Good && c.Bands.Good < c.Bands.Excellent) {
		return errors.New("credit band cut points must be strictly increasing")
	}
	return nil
}

// Save writes the config file into the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads the config from a directory, creating the default file
// on first use, and validates it.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateHomeDir returns the tool's home directory, creating it on first
// use.
func GetOrCreateHomeDir(name string) (string, error) {
	if name == "" {
		return "", errors.New("name cannot be empty")
	}
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home dir")
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", errors.Wrapf(err, "failed to create dir: %s", dir)
		}
	}
	return dir, nil
}
