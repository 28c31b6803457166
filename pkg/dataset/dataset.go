package dataset

import (
	"fmt"
	"sort"

	"gorgonia.org/tensor"
)

// Dataset holds the parsed exercise data. The tensors are plain values,
// never attached to an expression graph, so no gradients flow through
// them; treat them as read-only.
type Dataset struct {
	XTrain *tensor.Dense
	YTrain *tensor.Dense
	XTest  *tensor.Dense
	YTest  *tensor.Dense

	xTrain [][]float64
	yTrain []int
	xTest  [][]float64
	yTest  []int
}

func newDataset(xTrain [][]float64, yTrain []int, xTest [][]float64, yTest []int) (*Dataset, error) {
	xTrainT, err := denseMatrix(xTrain)
	if err != nil {
		return nil, fmt.Errorf("training features: %w", err)
	}
	xTestT, err := denseMatrix(xTest)
	if err != nil {
		return nil, fmt.Errorf("testing features: %w", err)
	}

	return &Dataset{
		XTrain: xTrainT,
		YTrain: denseLabels(yTrain),
		XTest:  xTestT,
		YTest:  denseLabels(yTest),

		xTrain: xTrain,
		yTrain: yTrain,
		xTest:  xTest,
		yTest:  yTest,
	}, nil
}

func denseMatrix(rows [][]float64) (*tensor.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("matrix has no rows")
	}

	cols := len(rows[0])
	backing := make([]float64, 0, len(rows)*cols)
	for _, row := range rows {
		backing = append(backing, row...)
	}

	return tensor.New(tensor.WithShape(len(rows), cols), tensor.WithBacking(backing)), nil
}

func denseLabels(labels []int) *tensor.Dense {
	backing := make([]int, len(labels))
	copy(backing, labels)
	return tensor.New(tensor.WithShape(len(labels)), tensor.WithBacking(backing))
}

// Shapes returns the shapes of the four tensors in the return-contract
// order: training features, training labels, testing features, testing
// labels.
func (d *Dataset) Shapes() (tensor.Shape, tensor.Shape, tensor.Shape, tensor.Shape) {
	return d.XTrain.Shape(), d.YTrain.Shape(), d.XTest.Shape(), d.YTest.Shape()
}

// NumFeatures returns the number of columns in the feature matrices.
func (d *Dataset) NumFeatures() int {
	return len(d.xTrain[0])
}

// Classes returns the sorted distinct labels seen across both
// partitions. Labels may be negative or sparse (the exercise answer
// files use -1/1); a classifier should index classes by position in
// this slice.
func (d *Dataset) Classes() []int {
	seen := map[int]bool{}
	for _, labels := range [][]int{d.yTrain, d.yTest} {
		for _, label := range labels {
			seen[label] = true
		}
	}

	classes := make([]int, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Ints(classes)
	return classes
}

// NumClasses returns the number of distinct labels seen across both
// partitions.
func (d *Dataset) NumClasses() int {
	return len(d.Classes())
}

// TrainingData returns fresh row-slice copies of the training
// partition, labels widened to float64 for the trainer.
func (d *Dataset) TrainingData() ([][]float64, []float64) {
	return copyRows(d.xTrain), labelValues(d.yTrain)
}

// TestingData returns fresh row-slice copies of the testing partition.
func (d *Dataset) TestingData() ([][]float64, []float64) {
	return copyRows(d.xTest), labelValues(d.yTest)
}

func copyRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

func labelValues(labels []int) []float64 {
	out := make([]float64, len(labels))
	for i, v := range labels {
		out[i] = float64(v)
	}
	return out
}
