package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	coreplan "github.com/kochimetro/induction/core/plan"
	"github.com/kochimetro/induction/infra/logger"
	"github.com/kochimetro/induction/infra/metrics"
	"github.com/kochimetro/induction/infra/mqtt"
	"github.com/kochimetro/induction/infra/tables"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-plan on job-card updates from the depot MQTT broker",
	Long: "watch loads the roster and cleaning slots once, then re-runs the " +
		"planning pipeline whenever a job-card snapshot arrives on the broker, " +
		"publishing each new plan.",
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required for watch mode")
	}
	if cfg.Inputs.Roster == "" {
		return fmt.Errorf("inputs.roster is required for watch mode")
	}

	ref, err := cfg.Planner.ParseReferenceDate()
	if err != nil {
		return err
	}
	roster, err := tables.LoadRoster(cfg.Inputs.Roster)
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

	client, err := mqtt.NewClient(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("mqtt client: %w", err)
	}
	defer client.Close()

	base := coreplan.Request{
		Roster:        roster,
		ReferenceDate: ref,
		ServiceQuota:  cfg.Planner.ServiceQuota,
		StandbyQuota:  cfg.Planner.StandbyQuota,
		CleaningSlots: slots,
	}
	watcher := mqtt.NewWatcher(planner, base, client, cfg.MQTT, logger.New("watcher"))
	if err := watcher.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
