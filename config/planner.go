package config

import (
	"fmt"
	"time"

	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/plan"
)

// PlannerConfig holds the run parameters of the induction planner.
type PlannerConfig struct {
	// ServiceQuota is the number of trains required for revenue service.
	ServiceQuota int `json:"service_quota"`
	// StandbyQuota is the number of hot standby trains.
	StandbyQuota int `json:"standby_quota"`
	// ReferenceDate is the planning date in YYYY-MM-DD form. Empty means
	// today.
	ReferenceDate string `json:"reference_date"`
	// Weights tunes the priority score.
	Weights plan.Weights `json:"weights"`
}

// SetDefaults applies the operational defaults.
func (c *PlannerConfig) SetDefaults() {
	if c.ServiceQuota == 0 {
		c.ServiceQuota = 15
	}
	if c.StandbyQuota == 0 {
		c.StandbyQuota = 6
	}
	if c.Weights == (plan.Weights{}) {
		c.Weights = plan.DefaultWeights()
	}
}

// Validate checks quota bounds and the reference date format.
func (c PlannerConfig) Validate() error {
	if c.ServiceQuota < 1 {
		return fmt.Errorf("service_quota must be at least 1")
	}
	if c.StandbyQuota < 0 {
		return fmt.Errorf("standby_quota must not be negative")
	}
	if _, err := c.ParseReferenceDate(); err != nil {
		return err
	}
	return nil
}

// ParseReferenceDate resolves the configured reference date. An invalid
// date string is a fatal input error.
func (c PlannerConfig) ParseReferenceDate() (time.Time, error) {
	if c.ReferenceDate == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(model.DateLayout, c.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference_date %q, use YYYY-MM-DD", c.ReferenceDate)
	}
	return t, nil
}

// InputsConfig locates the input tables and the plan outputs.
type InputsConfig struct {
	// Roster is the trainset CSV. Required for the plan command.
	Roster string `json:"roster"`
	// JobCards and CleaningSlots are optional; empty disables the feature.
	JobCards      string `json:"job_cards"`
	CleaningSlots string `json:"cleaning_slots"`
	// OutputCSV and OutputJSON are written after a run when set.
	OutputCSV  string `json:"output_csv"`
	OutputJSON string `json:"output_json"`
}

// Validate is a no-op today; path existence is checked when loading.
func (c InputsConfig) Validate() error { return nil }

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
