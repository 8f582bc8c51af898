package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kochimetro/induction/config"
	"github.com/kochimetro/induction/core/model"
	coreplan "github.com/kochimetro/induction/core/plan"
	"github.com/kochimetro/induction/infra/logger"
	"github.com/kochimetro/induction/infra/metrics"
	"github.com/kochimetro/induction/infra/tables"
	"github.com/kochimetro/induction/pkg/export"
)

var (
	flagRoster    string
	flagJobCards  string
	flagSlots     string
	flagDate      string
	flagService   int
	flagStandby   int
	flagOutCSV    string
	flagOutJSON   string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate tonight's induction plan from the input CSVs",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&flagRoster, "roster", "", "trainset CSV (required unless set in config)")
	planCmd.Flags().StringVar(&flagJobCards, "job-cards", "", "open job-card CSV (optional)")
	planCmd.Flags().StringVar(&flagSlots, "cleaning-slots", "", "cleaning-slot CSV (optional)")
	planCmd.Flags().StringVar(&flagDate, "date", "", "reference date YYYY-MM-DD (default today)")
	planCmd.Flags().IntVar(&flagService, "service", 0, "trains required for revenue service")
	planCmd.Flags().IntVar(&flagStandby, "standby", -1, "standby train count")
	planCmd.Flags().StringVar(&flagOutCSV, "out", "", "write the allocation table CSV to this path")
	planCmd.Flags().StringVar(&flagOutJSON, "json", "", "write the full plan JSON to this path")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyPlanFlags(cfg)

	ref, err := cfg.Planner.ParseReferenceDate()
	if err != nil {
		return err
	}
	if cfg.Inputs.Roster == "" {
		return fmt.Errorf("a roster CSV is required (--roster or inputs.roster)")
	}

	roster, err := tables.LoadRoster(cfg.Inputs.Roster)
	if err != nil {
		return err
	}
	jobCards, err := tables.LoadJobCards(cfg.Inputs.JobCards)
	if err != nil {
		return err
	}
	slots, err := tables.LoadCleaningSlots(cfg.Inputs.CleaningSlots)
	if err != nil {
		return err
	}

	sink, err := metrics.BuildSink(cfg.Metrics)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	planner := coreplan.New(logger.New("planner"), sink)
	planner.Weights = cfg.Planner.Weights

	result, err := planner.Run(coreplan.Request{
		Roster:        roster,
		ReferenceDate: ref,
		ServiceQuota:  cfg.Planner.ServiceQuota,
		StandbyQuota:  cfg.Planner.StandbyQuota,
		JobCards:      jobCards,
		CleaningSlots: slots,
	})
	if err != nil {
		return err
	}

	printSummary(cmd, result)

	if cfg.Inputs.OutputCSV != "" {
		if err := writeFile(cfg.Inputs.OutputCSV, func(f *os.File) error {
			return export.WriteCSV(f, result.Allocations)
		}); err != nil {
			return err
		}
		cmd.Printf("allocation table written to %s\n", cfg.Inputs.OutputCSV)
	} else {
		if err := export.WriteCSV(cmd.OutOrStdout(), result.Allocations); err != nil {
			return err
		}
	}
	if cfg.Inputs.OutputJSON != "" {
		if err := writeFile(cfg.Inputs.OutputJSON, func(f *os.File) error {
			return export.WriteJSON(f, result)
		}); err != nil {
			return err
		}
		cmd.Printf("plan written to %s\n", cfg.Inputs.OutputJSON)
	}
	return nil
}

func applyPlanFlags(cfg *config.Config) {
	if flagRoster != "" {
		cfg.Inputs.Roster = flagRoster
	}
	if flagJobCards != "" {
		cfg.Inputs.JobCards = flagJobCards
	}
	if flagSlots != "" {
		cfg.Inputs.CleaningSlots = flagSlots
	}
	if flagDate != "" {
		cfg.Planner.ReferenceDate = flagDate
	}
	if flagService > 0 {
		cfg.Planner.ServiceQuota = flagService
	}
	if flagStandby >= 0 {
		cfg.Planner.StandbyQuota = flagStandby
	}
	if flagOutCSV != "" {
		cfg.Inputs.OutputCSV = flagOutCSV
	}
	if flagOutJSON != "" {
		cfg.Inputs.OutputJSON = flagOutJSON
	}
}

// printSummary writes the bucket counts to stderr so stdout stays clean for
// the CSV table.
func printSummary(cmd *cobra.Command, p *model.Plan) {
	cmd.PrintErrf("plan %s for %s\n", p.RunID, p.ReferenceDate.Format(model.DateLayout))
	cmd.PrintErrf("  fleet:               %d\n", p.Summary.Fleet)
	cmd.PrintErrf("  eligible:            %d\n", p.Summary.Eligible)
	cmd.PrintErrf("  service:             %d\n", p.Summary.Service)
	cmd.PrintErrf("  standby:             %d\n", p.Summary.Standby)
	cmd.PrintErrf("  maintenance/blocked: %d\n", p.Summary.Maintenance)
	for _, w := range p.Warnings {
		cmd.PrintErrf("  warning: %s\n", w)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
