package model

import (
	"math"
	"testing"
)

func TestCalculateMetrics(t *testing.T) {
	// 2-class confusion matrix: 8 + 7 correct out of 20.
	confusion := [][]int{
		{8, 2},
		{3, 7},
	}

	m := calculateMetrics(confusion, 20)

	if math.Abs(m.Accuracy-75) > 1e-9 {
		t.Errorf("accuracy = %v, expected 75", m.Accuracy)
	}
	if m.Samples[0] != 10 || m.Samples[1] != 10 {
		t.Errorf("samples = %v, expected [10 10]", m.Samples)
	}

	// precision for class 0: 8 / (8 + 3)
	expectedPrecision := 8.0 / 11.0 * 100
	if math.Abs(m.ClassPrecision[0]-expectedPrecision) > 1e-9 {
		t.Errorf("precision[0] = %v, expected %v", m.ClassPrecision[0], expectedPrecision)
	}

	// recall for class 0: 8 / (8 + 2)
	if math.Abs(m.ClassRecall[0]-80) > 1e-9 {
		t.Errorf("recall[0] = %v, expected 80", m.ClassRecall[0])
	}

	expectedF1 := 2 * expectedPrecision * 80 / (expectedPrecision + 80)
	if math.Abs(m.F1Scores[0]-expectedF1) > 1e-9 {
		t.Errorf("f1[0] = %v, expected %v", m.F1Scores[0], expectedF1)
	}

	if m.MeanF1() <= 0 || m.MeanF1() > 100 {
		t.Errorf("mean f1 out of range: %v", m.MeanF1())
	}
}

func TestCalculateMetricsEmptyClass(t *testing.T) {
	confusion := [][]int{
		{5, 0},
		{0, 0},
	}

	m := calculateMetrics(confusion, 5)
	if m.Accuracy != 100 {
		t.Errorf("accuracy = %v, expected 100", m.Accuracy)
	}
	if m.ClassPrecision[1] != 0 || m.ClassRecall[1] != 0 || m.F1Scores[1] != 0 {
		t.Errorf("expected zeroed metrics for empty class, got %v %v %v",
			m.ClassPrecision[1], m.ClassRecall[1], m.F1Scores[1])
	}
}

func TestArgmax(t *testing.T) {
	if i := argmax([]float64{0.1, 0.7, 0.2}); i != 1 {
		t.Errorf("argmax = %d, expected 1", i)
	}
	if i := argmax([]float64{0.9}); i != 0 {
		t.Errorf("argmax = %d, expected 0", i)
	}
}

func TestFlattenBatchLabels(t *testing.T) {
	labels := []float64{0, 1, 2}
	flat := flattenBatchLabels(labels, []int{2, 0}, 3)

	expected := []float64{0, 0, 1, 1, 0, 0}
	if len(flat) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(flat))
	}
	for i := range expected {
		if flat[i] != expected[i] {
			t.Errorf("flat[%d] = %v, expected %v", i, flat[i], expected[i])
		}
	}
}

func TestFlattenBatchFeatures(t *testing.T) {
	features := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	flat := flattenBatchFeatures(features, []int{1, 2})

	expected := []float64{3, 4, 5, 6}
	for i := range expected {
		if flat[i] != expected[i] {
			t.Errorf("flat[%d] = %v, expected %v", i, flat[i], expected[i])
		}
	}
}
