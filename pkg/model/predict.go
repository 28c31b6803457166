package model

import (
	"fmt"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Predict runs the inference forward pass for a single feature row and
// returns the softmax class probabilities. Dropout is not applied at
// inference time.
func Predict(weights []tensor.Tensor, input []float64) ([]float64, error) {
	if len(weights) != 3 {
		return nil, fmt.Errorf("expected 3 weight tensors, got %d", len(weights))
	}

	g := gorgonia.NewGraph()
	inputSize := len(input)

	xVal := tensor.New(
		tensor.WithShape(1, inputSize),
		tensor.Of(tensor.Float64),
		tensor.WithBacking(input),
	)

	xTensor := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(1, inputSize),
		gorgonia.WithValue(xVal))

	w0 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(weights[0].Shape()...),
		gorgonia.WithValue(weights[0]))
	w1 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(weights[1].Shape()...),
		gorgonia.WithValue(weights[1]))
	w2 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(weights[2].Shape()...),
		gorgonia.WithValue(weights[2]))

	l0 := gorgonia.Must(gorgonia.Mul(xTensor, w0))
	l0Act := gorgonia.Must(gorgonia.Rectify(l0))

	l1 := gorgonia.Must(gorgonia.Mul(l0Act, w1))
	l1Act := gorgonia.Must(gorgonia.Rectify(l1))

	pred := gorgonia.Must(gorgonia.Mul(l1Act, w2))
	predSoftmax := gorgonia.Must(gorgonia.SoftMax(pred))

	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()

	if err := vm.RunAll(); err != nil {
		return nil, fmt.Errorf("forward pass failed: %v", err)
	}

	output := predSoftmax.Value().Data().([]float64)
	return output, nil
}

func argmax(slice []float64) int {
	maxIndex := 0
	maxValue := slice[0]
	for i, value := range slice {
		if value > maxValue {
			maxValue = value
			maxIndex = i
		}
	}
	return maxIndex
}
