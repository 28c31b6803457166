package runs_test

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amenhotep19/vqc/pkg/model"
	"github.com/amenhotep19/vqc/pkg/runs"
)

func sampleRuns() []runs.TrainingRun {
	return []runs.TrainingRun{
		{
			Dataset:    "1",
			FinishedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			Duration:   1.5,
			TrainRows:  250, TestRows: 50, Features: 3, NumClasses: 2,
			Params:   model.Params{Epochs: 200, BatchSize: 25, HiddenSize1: 16, HiddenSize2: 8, LearnRate: 0.001, DropoutRate: 0.1, L2Penalty: 0.01},
			Accuracy: 90, MeanF1: 88,
		},
		{
			Dataset:    "1",
			FinishedAt: time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC),
			Duration:   2.5,
			TrainRows:  250, TestRows: 50, Features: 3, NumClasses: 2,
			Params:   model.Params{Epochs: 200, BatchSize: 25, HiddenSize1: 16, HiddenSize2: 8, LearnRate: 0.001, DropoutRate: 0.1, L2Penalty: 0.01},
			Accuracy: 94, MeanF1: 92,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	if err := runs.WriteCSV(csv.NewWriter(&sb), sampleRuns()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "Dataset" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][0] != "1" || records[2][14] != "94.0000" {
		t.Errorf("unexpected rows: %v %v", records[1], records[2])
	}
}

func TestAppendCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	for _, run := range sampleRuns() {
		if err := runs.AppendCSV(path, run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	// header written once only
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
}

func TestSummarize(t *testing.T) {
	s := runs.Summarize(sampleRuns())

	if s.Runs != 2 {
		t.Errorf("runs = %d, expected 2", s.Runs)
	}
	if math.Abs(s.Accuracy.Mean-92) > 1e-9 {
		t.Errorf("accuracy mean = %v, expected 92", s.Accuracy.Mean)
	}
	if s.Accuracy.Min != 90 || s.Accuracy.Max != 94 {
		t.Errorf("accuracy min/max = %v/%v, expected 90/94", s.Accuracy.Min, s.Accuracy.Max)
	}
	// sample stddev of {90, 94}
	if math.Abs(s.Accuracy.StdDev-math.Sqrt(8)) > 1e-9 {
		t.Errorf("accuracy stddev = %v, expected %v", s.Accuracy.StdDev, math.Sqrt(8))
	}
	if math.Abs(s.Duration.Mean-2) > 1e-9 {
		t.Errorf("duration mean = %v, expected 2", s.Duration.Mean)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := runs.Summarize(nil)
	if s.Runs != 0 || s.Accuracy.Mean != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}
