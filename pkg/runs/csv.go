package runs

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func csvHeader() []string {
	return []string{
		"Dataset", "Finished At", "Duration (s)",
		"Train Rows", "Test Rows", "Features", "Classes",
		"Epochs", "Batch Size", "Hidden Size 1", "Hidden Size 2",
		"Learn Rate", "Dropout Rate", "L2 Penalty",
		"Accuracy", "Mean F1",
	}
}

func csvRow(run TrainingRun) []string {
	return []string{
		run.Dataset,
		run.FinishedAt.Format(time.RFC3339),
		fmt.Sprintf("%0.03f", run.Duration),
		fmt.Sprintf("%d", run.TrainRows),
		fmt.Sprintf("%d", run.TestRows),
		fmt.Sprintf("%d", run.Features),
		fmt.Sprintf("%d", run.NumClasses),
		fmt.Sprintf("%d", run.Params.Epochs),
		fmt.Sprintf("%d", run.Params.BatchSize),
		fmt.Sprintf("%d", run.Params.HiddenSize1),
		fmt.Sprintf("%d", run.Params.HiddenSize2),
		fmt.Sprintf("%0.06f", run.Params.LearnRate),
		fmt.Sprintf("%0.04f", run.Params.DropoutRate),
		fmt.Sprintf("%0.04f", run.Params.L2Penalty),
		fmt.Sprintf("%0.04f", run.Accuracy),
		fmt.Sprintf("%0.04f", run.MeanF1),
	}
}

// WriteCSV writes a header and one row per run.
func WriteCSV(writer *csv.Writer, runs []TrainingRun) error {
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, run := range runs {
		if err := writer.Write(csvRow(run)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// AppendCSV appends one run to the CSV log at path, writing the header
// first when the file is new.
func AppendCSV(path string, run TrainingRun) error {
	info, err := os.Stat(path)
	newFile := err != nil || info.Size() == 0

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if newFile {
		if err := writer.Write(csvHeader()); err != nil {
			return err
		}
	}
	if err := writer.Write(csvRow(run)); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

type Aggregate struct {
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64
}

func aggregate(values []float64) Aggregate {
	if len(values) == 0 {
		return Aggregate{}
	}
	return Aggregate{
		Mean:   stat.Mean(values, nil),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		StdDev: stat.StdDev(values, nil),
	}
}

type Summary struct {
	Runs     int
	Accuracy Aggregate
	MeanF1   Aggregate
	Duration Aggregate
}

// Summarize aggregates accuracy, F1 and duration across runs.
func Summarize(runs []TrainingRun) Summary {
	accuracy := make([]float64, len(runs))
	meanF1 := make([]float64, len(runs))
	duration := make([]float64, len(runs))
	for i, run := range runs {
		accuracy[i] = run.Accuracy
		meanF1[i] = run.MeanF1
		duration[i] = run.Duration
	}

	return Summary{
		Runs:     len(runs),
		Accuracy: aggregate(accuracy),
		MeanF1:   aggregate(meanF1),
		Duration: aggregate(duration),
	}
}
