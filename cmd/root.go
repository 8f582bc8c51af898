package cmd

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/kochimetro/induction/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "induction",
	Short: "Rule-based train induction planner",
	Long: "induction partitions a metro fleet into Service, Standby and " +
		"Maintenance/Blocked buckets from the nightly roster, open job cards " +
		"and cleaning-bay capacity.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration file. A missing file at the default
// location falls back to built-in defaults so the CLI works with flags only.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		var perr *fs.PathError
		if errors.As(err, &perr) && cfgPath == "config.yaml" {
			def := &config.Config{}
			def.Planner.SetDefaults()
			def.HTTP.SetDefaults()
			def.Metrics.SetDefaults()
			def.MQTT.SetDefaults()
			return def, nil
		}
		return nil, err
	}
	return cfg, nil
}
