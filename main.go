package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/amenhotep19/vqc/pkg/dataset"
	"github.com/amenhotep19/vqc/pkg/db"
	"github.com/amenhotep19/vqc/pkg/model"
	"github.com/amenhotep19/vqc/pkg/runs"
	"github.com/amenhotep19/vqc/pkg/source"
)

func loadEnv(filenames ...string) {
	for _, filename := range filenames {
		if s, err := os.Stat(filename); err == nil && !s.IsDir() {
			godotenv.Load(filename)
		}
	}
}

func main() {
	if _, ok := os.LookupEnv("ENV"); !ok {
		os.Setenv("ENV", "development")
	}
	loadEnv(".env."+os.Getenv("ENV")+".local", ".env."+os.Getenv("ENV"), ".env.local", ".env")

	name := "1"
	if n, ok := os.LookupEnv("VQC_DATASET"); ok {
		name = n
	}
	baseURL := os.Getenv("VQC_DATASET_BASE_URL")

	params := model.NewParamsFromDefaults()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Dataset Config")
	t.AppendRows([]table.Row{
		{"VQC_DATASET", name},
		{"VQC_DATASET_BASE_URL", baseURL},
	})
	t.Render()

	params.Write(os.Stdout, "Model Config")

	var cache *leveldb.DB
	if baseURL != "" {
		if c, err := source.OpenCache(os.Getenv("VQC_CACHE_PATH")); err != nil {
			log.Printf("failed to open dataset cache, continuing without: %v", err)
		} else {
			cache = c
			defer cache.Close()
		}
	}

	record, answers, err := source.Resolve(cache, resty.New(), name, baseURL)
	if err != nil {
		log.Fatalf("failed to resolve dataset %s: %v", name, err)
	}

	ds, err := dataset.Parse(record, answers)
	if err != nil {
		log.Fatalf("failed to parse dataset %s: %v", name, err)
	}

	xTrain, yTrain, xTest, yTest := ds.Shapes()
	t = table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Dataset Shapes")
	t.AppendRows([]table.Row{
		{"X_train", fmt.Sprintf("%v", xTrain)},
		{"Y_train", fmt.Sprintf("%v", yTrain)},
		{"X_test", fmt.Sprintf("%v", xTest)},
		{"Y_test", fmt.Sprintf("%v", yTest)},
		{"Classes", fmt.Sprintf("%d", ds.NumClasses())},
	})
	t.Render()

	pw := progress.NewWriter()
	pw.SetMessageLength(40)
	pw.SetNumTrackersExpected(2)
	pw.SetSortBy(progress.SortByPercentDsc)
	pw.SetStyle(progress.StyleDefault)
	pw.SetTrackerLength(15)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	pw.Style().Colors = progress.StyleColorsExample
	pw.Style().Options.PercentFormat = "%2.0f%%"
	go pw.Render()

	started := time.Now()
	m, err := model.NewModel(context.Background(), pw, ds, params)

	pw.Stop()
	for pw.IsRenderInProgress() {
		time.Sleep(100 * time.Millisecond)
	}

	if err != nil {
		log.Fatalf("error training model: %v", err)
	}

	m.Metrics.Write(os.Stdout)

	run := runs.TrainingRun{
		Dataset:    name,
		FinishedAt: time.Now(),
		Duration:   time.Since(started).Seconds(),
		TrainRows:  xTrain[0],
		TestRows:   xTest[0],
		Features:   ds.NumFeatures(),
		NumClasses: m.NumClasses,
		Params:     params,
		Accuracy:   m.Metrics.Accuracy,
		MeanF1:     m.Metrics.MeanF1(),
	}

	if path, ok := os.LookupEnv("VQC_RUNS_CSV"); ok {
		if err := runs.AppendCSV(path, run); err != nil {
			log.Printf("failed to append run to %s: %v", path, err)
		}
	}

	if _, ok := os.LookupEnv("MONGO_URL"); ok {
		recordRun(run)
	}
}

func recordRun(run runs.TrainingRun) {
	database, err := db.ConnectMongo()
	if err != nil {
		log.Printf("failed to connect to MongoDB, run not recorded: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := runs.Record(ctx, database, run); err != nil {
		log.Printf("failed to record run: %v", err)
		return
	}

	history, err := runs.List(ctx, database, run.Dataset, 20)
	if err != nil {
		log.Printf("failed to list recent runs: %v", err)
		return
	}

	summary := runs.Summarize(history)
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Last %d Runs", summary.Runs))
	t.AppendHeader(table.Row{"", "MEAN", "MIN", "MAX", "STDDEV"})
	t.AppendRows([]table.Row{
		{"Accuracy", fmt.Sprintf("%6.2f%%", summary.Accuracy.Mean), fmt.Sprintf("%6.2f%%", summary.Accuracy.Min), fmt.Sprintf("%6.2f%%", summary.Accuracy.Max), fmt.Sprintf("%6.2f", summary.Accuracy.StdDev)},
		{"Mean F1", fmt.Sprintf("%6.2f%%", summary.MeanF1.Mean), fmt.Sprintf("%6.2f%%", summary.MeanF1.Min), fmt.Sprintf("%6.2f%%", summary.MeanF1.Max), fmt.Sprintf("%6.2f", summary.MeanF1.StdDev)},
		{"Duration (s)", fmt.Sprintf("%6.2f", summary.Duration.Mean), fmt.Sprintf("%6.2f", summary.Duration.Min), fmt.Sprintf("%6.2f", summary.Duration.Max), fmt.Sprintf("%6.2f", summary.Duration.StdDev)},
	})
	t.Render()
}
