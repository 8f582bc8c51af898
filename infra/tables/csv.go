// Package tables loads the three planner input tables from CSV sources.
// The roster stays a loosely typed table so the normalizer can tell a
// missing column from an empty cell; job cards and cleaning slots load into
// typed records directly.
package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kochimetro/induction/core/model"
)

// ReadTable parses CSV from r into a generic table. The first row is the
// header; header names are lower-cased and trimmed.
func ReadTable(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &model.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &model.Table{Columns: make([]string, len(header))}
	for i, name := range header {
		t.Columns[i] = strings.ToLower(strings.TrimSpace(name))
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(model.Row, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// LoadRoster reads the trainset table from path.
func LoadRoster(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return t, nil
}

// LoadJobCards reads the job-card table from path. An empty path means the
// table was not supplied and returns nil, which disables job-card blocking.
func LoadJobCards(path string) ([]model.JobCard, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open job cards: %w", err)
	}
	defer f.Close()
	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse job cards: %w", err)
	}
	return JobCardsFromTable(t), nil
}

// JobCardsFromTable converts a generic table into job cards. Severity stays
// empty when the column is absent; the evaluator reports it as "N/A".
func JobCardsFromTable(t *model.Table) []model.JobCard {
	cards := make([]model.JobCard, 0, len(t.Rows))
	hasSeverity := t.Has("severity")
	for i := range t.Rows {
		c := model.JobCard{
			TrainID:   strings.TrimSpace(t.Get(i, "train_id")),
			JobCardID: strings.TrimSpace(t.Get(i, "job_card_id")),
		}
		if hasSeverity {
			c.Severity = strings.TrimSpace(t.Get(i, "severity"))
		}
		cards = append(cards, c)
	}
	return cards
}

// LoadCleaningSlots reads the cleaning-slot table from path. An empty path
// means the table was not supplied and returns nil, which leaves cleaning
// unconstrained. A present but empty table means zero capacity.
func LoadCleaningSlots(path string) ([]model.CleaningSlot, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cleaning slots: %w", err)
	}
	defer f.Close()
	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse cleaning slots: %w", err)
	}
	return CleaningSlotsFromTable(t), nil
}

// CleaningSlotsFromTable converts a generic table into cleaning slots.
func CleaningSlotsFromTable(t *model.Table) []model.CleaningSlot {
	slots := make([]model.CleaningSlot, 0, len(t.Rows))
	for i := range t.Rows {
		avail, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(t.Get(i, "available"))))
		slots = append(slots, model.CleaningSlot{
			SlotID:    strings.TrimSpace(t.Get(i, "slot_id")),
			Available: err == nil && avail,
			Shift:     strings.TrimSpace(t.Get(i, "shift")),
		})
	}
	return slots
}
