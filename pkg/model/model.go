package model

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/progress"
	"gorgonia.org/tensor"

	"github.com/amenhotep19/vqc/pkg/dataset"
)

type Model struct {
	weights []tensor.Tensor
	scaler  *Scaler
	params  Params
	classes []int

	NumClasses int
	Metrics    Metrics
}

// NewModel trains a classifier on the dataset's training partition and
// evaluates it against the testing partition. Labels are mapped to
// 0-based class indices internally, so negative or sparse label
// alphabets are fine.
func NewModel(ctx context.Context, pw progress.Writer, ds *dataset.Dataset, params Params) (*Model, error) {
	classes := ds.Classes()
	numClasses := len(classes)
	if numClasses < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", numClasses)
	}
	classIndex := make(map[int]int, numClasses)
	for i, label := range classes {
		classIndex[label] = i
	}

	trainFeatures, trainLabels := ds.TrainingData()
	testFeatures, testLabels := ds.TestingData()
	mapLabels(trainLabels, classIndex)
	mapLabels(testLabels, classIndex)

	scaler := FitScaler(trainFeatures)
	trainFeatures = scaler.Transform(trainFeatures)
	testFeatures = scaler.Transform(testFeatures)

	weights, err := Train(ctx, pw, params, numClasses, trainFeatures, trainLabels)
	if err != nil {
		return nil, fmt.Errorf("training error: %w", err)
	}

	tracker := &progress.Tracker{
		Message: "Validation",
		Total:   int64(len(testFeatures)),
		Units:   progress.UnitsDefault,
	}
	if pw != nil {
		pw.AppendTracker(tracker)
		tracker.Start()
	}

	confusionMatrix := make([][]int, numClasses)
	for i := range confusionMatrix {
		confusionMatrix[i] = make([]int, numClasses)
	}

	total := len(testFeatures)
	for i, features := range testFeatures {
		pred, err := Predict(weights, features)
		tracker.Increment(1)
		if err != nil {
			return nil, fmt.Errorf("prediction error for sample %d: %w", i, err)
		}

		predictedClass := argmax(pred)
		actualClass := int(testLabels[i])
		confusionMatrix[actualClass][predictedClass]++
	}
	tracker.MarkAsDone()

	return &Model{
		weights:    weights,
		scaler:     scaler,
		params:     params,
		classes:    classes,
		NumClasses: numClasses,
		Metrics:    calculateMetrics(confusionMatrix, total),
	}, nil
}

// Predict classifies a single raw (unscaled) feature row and returns
// the predicted label in the dataset's original label alphabet.
func (m *Model) Predict(features []float64) (int, []float64, error) {
	scaled := m.scaler.Transform([][]float64{features})[0]
	pred, err := Predict(m.weights, scaled)
	if err != nil {
		return 0, nil, err
	}
	return m.classes[argmax(pred)], pred, nil
}

func mapLabels(labels []float64, classIndex map[int]int) {
	for i := range labels {
		labels[i] = float64(classIndex[int(labels[i])])
	}
}
