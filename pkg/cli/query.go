package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lendwatch/lendctl/pkg/data"
)

const queryResultLimitDefault = 50

var (
	queryLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of results returned",
		Value: queryResultLimitDefault,
	}

	gstYearFlag = &cli.IntFlag{
		Name:  "year",
		Usage: "Filter GST rankings to a single year",
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "Read-only dashboard queries over the gold layer",
		UsageText: `lendctl query regions
   lendctl query purposes
   lendctl query bands
   lendctl query gst --year 2023
   lendctl query runs`,
		HideHelpCommand: true,
		Subcommands: []*cli.Command{
			{
				Name:   "regions",
				Usage:  "Default rate and average risk score per region",
				Action: cmdQueryRegions,
			},
			{
				Name:   "purposes",
				Usage:  "Default rate and average loan amount per loan purpose",
				Action: cmdQueryPurposes,
			},
			{
				Name:   "bands",
				Usage:  "Loan and default distribution across credit bands",
				Action: cmdQueryBands,
			},
			{
				Name:   "gst",
				Usage:  "State revenue ranking per year",
				Action: cmdQueryGST,
				Flags:  []cli.Flag{gstYearFlag, queryLimitFlag},
			},
			{
				Name:   "runs",
				Usage:  "Recorded model runs, best ROC-AUC first",
				Action: cmdQueryRuns,
			},
		},
	}
)

func cmdQueryRegions(c *cli.Context) error {
	list, err := data.GetRegionRisk(getConfig(c).DB)
	if err != nil {
		return fmt.Errorf("querying region risk: %w", err)
	}
	return encode(list)
}

func cmdQueryPurposes(c *cli.Context) error {
	list, err := data.GetPurposeRisk(getConfig(c).DB)
	if err != nil {
		return fmt.Errorf("querying purpose risk: %w", err)
	}
	return encode(list)
}

func cmdQueryBands(c *cli.Context) error {
	list, err := data.GetBandDistribution(getConfig(c).DB)
	if err != nil {
		return fmt.Errorf("querying band distribution: %w", err)
	}
	return encode(list)
}

func cmdQueryGST(c *cli.Context) error {
	var year *int
	if c.IsSet(gstYearFlag.Name) {
		y := c.Int(gstYearFlag.Name)
		year = &y
	}

	list, err := data.GetGSTRanking(getConfig(c).DB, year, c.Int(queryLimitFlag.Name))
	if err != nil {
		return fmt.Errorf("querying gst ranking: %w", err)
	}
	return encode(list)
}

func cmdQueryRuns(c *cli.Context) error {
	list, err := data.ListModelRuns(getConfig(c).DB)
	if err != nil {
		return fmt.Errorf("querying model runs: %w", err)
	}
	return encode(list)
}
