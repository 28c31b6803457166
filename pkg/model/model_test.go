package model_test

import (
	"context"
	"math"
	"testing"

	"github.com/amenhotep19/vqc/pkg/dataset"
	"github.com/amenhotep19/vqc/pkg/model"
)

func TestNewModelSingleClass(t *testing.T) {
	ds, err := dataset.Parse("0XXX0XXX0", "0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := model.NewModel(context.Background(), nil, ds, model.NewParamsFromDefaults()); err == nil {
		t.Fatal("expected an error for a single-class dataset")
	}
}

func TestTrainSmoke(t *testing.T) {
	// Two well-separated blobs, deterministic offsets.
	features := [][]float64{}
	labels := []float64{}
	for i := 0; i < 20; i++ {
		offset := float64(i) * 0.005
		features = append(features, []float64{0.1 + offset, 0.1 - offset})
		labels = append(labels, 0)
		features = append(features, []float64{0.9 - offset, 0.9 + offset})
		labels = append(labels, 1)
	}

	params := model.Params{
		Epochs:          20,
		BatchSize:       8,
		HiddenSize1:     8,
		HiddenSize2:     4,
		LearnRate:       0.01,
		DropoutRate:     0,
		L2Penalty:       0,
		ValidationSplit: 0.2,
		ValidateEvery:   5,
		Patience:        10,
	}

	weights, err := model.Train(context.Background(), nil, params, 2, features, labels)
	if err != nil {
		t.Fatalf("unexpected training error: %v", err)
	}
	if len(weights) != 3 {
		t.Fatalf("expected 3 weight tensors, got %d", len(weights))
	}

	probs, err := model.Predict(weights, []float64{0.1, 0.1})
	if err != nil {
		t.Fatalf("unexpected prediction error: %v", err)
	}
	if len(probs) != 2 {
		t.Fatalf("expected 2 probabilities, got %d", len(probs))
	}
	if math.Abs(probs[0]+probs[1]-1) > 1e-6 {
		t.Errorf("probabilities sum to %v, expected 1", probs[0]+probs[1])
	}
}

func TestNewModelNegativeLabels(t *testing.T) {
	record := "0.1,0.2S0.3,0.4S0.15,0.25S0.35,0.45XXX-1,1,-1,1XXX0.5,0.6S0.7,0.8"
	ds, err := dataset.Parse(record, "-1,1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params := model.Params{
		Epochs:          5,
		BatchSize:       2,
		HiddenSize1:     4,
		HiddenSize2:     3,
		LearnRate:       0.01,
		DropoutRate:     0,
		L2Penalty:       0,
		ValidationSplit: 0,
		ValidateEvery:   1,
		Patience:        5,
	}

	m, err := model.NewModel(context.Background(), nil, ds, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.NumClasses != 2 {
		t.Errorf("expected 2 classes, got %d", m.NumClasses)
	}

	label, probs, err := m.Predict([]float64{0.1, 0.2})
	if err != nil {
		t.Fatalf("unexpected prediction error: %v", err)
	}
	if label != -1 && label != 1 {
		t.Errorf("predicted label %d outside the dataset's label range", label)
	}
	if len(probs) != 2 {
		t.Errorf("expected 2 probabilities, got %d", len(probs))
	}
}

func TestTrainSmallDataset(t *testing.T) {
	// Fewer samples than the requested batch size: the batch must
	// shrink to the post-split training size so training still runs.
	features := [][]float64{}
	labels := []float64{}
	for i := 0; i < 5; i++ {
		offset := float64(i) * 0.01
		features = append(features, []float64{0.1 + offset, 0.1 - offset})
		labels = append(labels, 0)
		features = append(features, []float64{0.9 - offset, 0.9 + offset})
		labels = append(labels, 1)
	}

	params := model.Params{
		Epochs:          300,
		BatchSize:       25,
		HiddenSize1:     8,
		HiddenSize2:     4,
		LearnRate:       0.05,
		DropoutRate:     0,
		L2Penalty:       0,
		ValidationSplit: 0.1,
		ValidateEvery:   10,
		Patience:        100,
	}

	weights, err := model.Train(context.Background(), nil, params, 2, features, labels)
	if err != nil {
		t.Fatalf("unexpected training error: %v", err)
	}

	low, err := model.Predict(weights, []float64{0.1, 0.1})
	if err != nil {
		t.Fatalf("unexpected prediction error: %v", err)
	}
	high, err := model.Predict(weights, []float64{0.9, 0.9})
	if err != nil {
		t.Fatalf("unexpected prediction error: %v", err)
	}
	if low[0] <= low[1] {
		t.Errorf("expected class 0 for the low blob, got %v", low)
	}
	if high[1] <= high[0] {
		t.Errorf("expected class 1 for the high blob, got %v", high)
	}
}

func TestTrainLabelOutOfRange(t *testing.T) {
	if _, err := model.Train(context.Background(), nil, model.NewParamsFromDefaults(), 2,
		[][]float64{{0, 0}, {1, 1}}, []float64{-1, 1}); err == nil {
		t.Fatal("expected an error for a label below the class range")
	}
	if _, err := model.Train(context.Background(), nil, model.NewParamsFromDefaults(), 2,
		[][]float64{{0, 0}, {1, 1}}, []float64{0, 2}); err == nil {
		t.Fatal("expected an error for a label above the class range")
	}
}

func TestTrainSplitLeavesNoSamples(t *testing.T) {
	params := model.NewParamsFromDefaults()
	params.ValidationSplit = 1

	if _, err := model.Train(context.Background(), nil, params, 2,
		[][]float64{{0, 0}, {1, 1}}, []float64{0, 1}); err == nil {
		t.Fatal("expected an error when the split leaves no training samples")
	}
}

func TestTrainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := model.Train(ctx, nil, model.NewParamsFromDefaults(), 2,
		[][]float64{{0, 0}, {1, 1}}, []float64{0, 1})
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestTrainNoSamples(t *testing.T) {
	if _, err := model.Train(context.Background(), nil, model.NewParamsFromDefaults(), 2, nil, nil); err == nil {
		t.Fatal("expected an error for empty training data")
	}
}
