package scenarios

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kochimetro/induction/core/model"
)

// JobCardDef describes one open work order in a scenario file.
type JobCardDef struct {
	TrainID   string `yaml:"train_id"`
	JobCardID string `yaml:"job_card_id"`
	Severity  string `yaml:"severity"`
}

func (j JobCardDef) ToModel() model.JobCard {
	return model.JobCard{TrainID: j.TrainID, JobCardID: j.JobCardID, Severity: j.Severity}
}

// CleaningSlotDef describes one cleaning slot in a scenario file.
type CleaningSlotDef struct {
	SlotID    string `yaml:"slot_id"`
	Available bool   `yaml:"available"`
	Shift     string `yaml:"shift"`
}

func (c CleaningSlotDef) ToModel() model.CleaningSlot {
	return model.CleaningSlot{SlotID: c.SlotID, Available: c.Available, Shift: c.Shift}
}

// Expected lists the assertions of a scenario.
type Expected struct {
	// Assignments maps train_id to its expected bucket.
	Assignments map[string]string `yaml:"assignments"`
	// Reasons maps train_id to a substring the reason text must contain.
	Reasons map[string]string `yaml:"reasons,omitempty"`
	// Eligible is the expected eligible count, nil to skip.
	Eligible *int `yaml:"eligible,omitempty"`
}

// Scenario is one YAML-defined end-to-end planning case. Roster rows stay
// loosely typed so scenarios can exercise missing columns and bad cells.
type Scenario struct {
	Name          string             `yaml:"name"`
	Description   string             `yaml:"description,omitempty"`
	ReferenceDate string             `yaml:"reference_date"`
	ServiceQuota  int                `yaml:"service_quota"`
	StandbyQuota  int                `yaml:"standby_quota"`
	Roster        []map[string]any   `yaml:"roster"`
	JobCards      *[]JobCardDef      `yaml:"job_cards,omitempty"`
	CleaningSlots *[]CleaningSlotDef `yaml:"cleaning_slots,omitempty"`
	Expected      Expected           `yaml:"expected"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// RosterTable converts the scenario roster into the normalizer's table form.
// Column presence is the union of keys across rows.
func (sc *Scenario) RosterTable() *model.Table {
	seen := map[string]bool{}
	for _, r := range sc.Roster {
		for k := range r {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	t := &model.Table{Columns: cols}
	for _, r := range sc.Roster {
		row := make(model.Row, len(cols))
		for k, v := range r {
			row[k] = scalarString(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
