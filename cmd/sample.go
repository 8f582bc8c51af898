package cmd

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kochimetro/induction/core/model"
)

var (
	sampleDir    string
	sampleTrains int
	sampleSeed   int64
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate sample input CSVs for a demo fleet",
	RunE:  runSample,
}

func init() {
	sampleCmd.Flags().StringVar(&sampleDir, "dir", ".", "output directory")
	sampleCmd.Flags().IntVar(&sampleTrains, "trains", 25, "fleet size")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0 = time-based)")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	seed := sampleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	today := time.Now()

	type row struct {
		train   model.Train
		openJob bool
	}
	rows := make([]row, sampleTrains)
	for i := range rows {
		fit := today.AddDate(0, 0, 1+rng.Intn(9))
		if rng.Float64() >= 0.7 {
			// 30% of the fleet with recently expired fitness
			fit = today.AddDate(0, 0, -(1 + rng.Intn(4)))
		}
		rows[i] = row{
			train: model.Train{
				ID:                fmt.Sprintf("TS%02d", i+1),
				FitnessValidUntil: &fit,
				BrandingPriority:  weightedBranding(rng),
				MileageLastWeek:   float64(200 + rng.Intn(1300)),
				NeedsCleaning:     rng.Float64() < 0.3,
				BayPosition:       strconv.Itoa(1 + rng.Intn(10)),
			},
			openJob: rng.Float64() < 0.25,
		}
		rows[i].train.JobCardOpen = rows[i].openJob
	}

	trainRecs := [][]string{{"train_id", "fitness_valid_until", "job_card_open",
		"branding_priority", "mileage_last_week", "needs_cleaning", "bay_position"}}
	for _, r := range rows {
		trainRecs = append(trainRecs, []string{
			r.train.ID,
			r.train.FitnessValidUntil.Format(model.DateLayout),
			strconv.FormatBool(r.train.JobCardOpen),
			strconv.Itoa(r.train.BrandingPriority),
			strconv.FormatFloat(r.train.MileageLastWeek, 'f', -1, 64),
			strconv.FormatBool(r.train.NeedsCleaning),
			r.train.BayPosition,
		})
	}
	if err := writeCSVFile(filepath.Join(sampleDir, "sample_trainsets.csv"), trainRecs); err != nil {
		return err
	}

	jobRecs := [][]string{{"train_id", "job_card_id", "severity"}}
	severities := []string{"low", "low", "medium", "medium", "high"}
	for _, r := range rows {
		if r.openJob {
			jobRecs = append(jobRecs, []string{
				r.train.ID,
				"JC-" + r.train.ID,
				severities[rng.Intn(len(severities))],
			})
		}
	}
	if err := writeCSVFile(filepath.Join(sampleDir, "job_cards.csv"), jobRecs); err != nil {
		return err
	}

	slotRecs := [][]string{{"slot_id", "available", "shift"}}
	for i := 1; i <= 6; i++ {
		slotRecs = append(slotRecs, []string{
			fmt.Sprintf("CS%d", i),
			strconv.FormatBool(rng.Float64() < 0.7),
			"night",
		})
	}
	if err := writeCSVFile(filepath.Join(sampleDir, "cleaning_slots.csv"), slotRecs); err != nil {
		return err
	}

	cmd.Printf("sample data for %d trains written to %s (seed %d)\n", sampleTrains, sampleDir, seed)
	return nil
}

// weightedBranding skews branding priorities toward the low end, like a real
// wrap-commitment ledger.
func weightedBranding(rng *rand.Rand) int {
	cum := []float64{0.25, 0.5, 0.7, 0.85, 0.95, 1.0}
	x := rng.Float64()
	for p, c := range cum {
		if x < c {
			return p
		}
	}
	return 0
}

func writeCSVFile(path string, recs [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(recs); err != nil {
		f.Close()
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
