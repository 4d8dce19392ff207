package cli

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lendwatch/lendctl/pkg/data"
)

var (
	fileFlag = &cli.StringFlag{
		Name:     "file",
		Usage:    "Path to the CSV file to import",
		Required: true,
	}

	importCmd = &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Import raw datasets into the bronze layer",
		UsageText: `lendctl import loans --file loan_default.csv
   lendctl import gst --file gst_state_year.csv`,
		HideHelpCommand: true,
		Subcommands: []*cli.Command{
			{
				Name:   "loans",
				Usage:  "Import a loan application dataset",
				Action: cmdImportLoans,
				Flags:  []cli.Flag{fileFlag},
			},
			{
				Name:   "gst",
				Usage:  "Import a GST state-year revenue dataset",
				Action: cmdImportGST,
				Flags:  []cli.Flag{fileFlag},
			},
		},
	}
)

// ImportResult summarizes a bronze-layer import.
type ImportResult struct {
	File     string `json:"file"`
	Table    string `json:"table"`
	Rows     int    `json:"rows"`
	Duration string `json:"duration"`
}

func cmdImportLoans(c *cli.Context) error {
	start := time.Now()
	cfg := getConfig(c)
	file := c.String(fileFlag.Name)

	n, err := data.ImportLoanCSV(cfg.DB, file)
	if err != nil {
		return fmt.Errorf("importing loans: %w", err)
	}

	return encode(&ImportResult{
		File:     file,
		Table:    "loan_raw",
		Rows:     n,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	})
}

func cmdImportGST(c *cli.Context) error {
	start := time.Now()
	cfg := getConfig(c)
	file := c.String(fileFlag.Name)

	n, err := data.ImportGSTCSV(cfg.DB, file)
	if err != nil {
		return fmt.Errorf("importing gst: %w", err)
	}

	return encode(&ImportResult{
		File:     file,
		Table:    "gst_raw",
		Rows:     n,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	})
}
