package model

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/jedib0t/go-pretty/v6/progress"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Train fits a feed-forward softmax classifier to the features and
// labels. The returned weights are the best snapshot seen on the
// held-out validation slice, not necessarily the final epoch's.
func Train(ctx context.Context, pw progress.Writer, params Params, numClasses int, features [][]float64, labels []float64) ([]tensor.Tensor, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no training samples")
	}

	tracker := progress.Tracker{
		Message: "Training",
		Total:   int64(params.Epochs),
		Units:   progress.UnitsDefault,
	}
	if pw != nil {
		pw.AppendTracker(&tracker)
		tracker.Start()
	}

	for i, label := range labels {
		if c := int(label); c < 0 || c >= numClasses {
			return nil, fmt.Errorf("label %d out of range: %d (expected 0..%d)", i, c, numClasses-1)
		}
	}

	inputSize := len(features[0])

	totalSamples := len(features)
	validationSize := int(float64(totalSamples) * params.ValidationSplit)
	trainSize := totalSamples - validationSize
	if trainSize < 1 {
		return nil, fmt.Errorf("validation split %0.02f leaves no training samples", params.ValidationSplit)
	}

	// Cap to the post-split training size, not the total: a batch must
	// fit inside the training slice or no batches would ever run.
	batchSize := params.BatchSize
	if batchSize > trainSize {
		batchSize = trainSize
	}

	indices := rand.Perm(totalSamples)
	trainIndices := indices[:trainSize]
	validIndices := indices[trainSize:]

	g := gorgonia.NewGraph()

	xTensor := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batchSize, inputSize),
		gorgonia.WithName("x"))

	yTensor := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batchSize, numClasses),
		gorgonia.WithName("y"))

	w0 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(inputSize, params.HiddenSize1),
		gorgonia.WithInit(gorgonia.GlorotN(1.0)),
		gorgonia.WithName("w0"))

	w1 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(params.HiddenSize1, params.HiddenSize2),
		gorgonia.WithInit(gorgonia.GlorotN(1.0)),
		gorgonia.WithName("w1"))

	w2 := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(params.HiddenSize2, numClasses),
		gorgonia.WithInit(gorgonia.GlorotN(1.0)),
		gorgonia.WithName("w2"))

	l0 := gorgonia.Must(gorgonia.Mul(xTensor, w0))
	l0Act := gorgonia.Must(gorgonia.Rectify(l0))
	l0Drop := gorgonia.Must(gorgonia.Dropout(l0Act, params.DropoutRate))

	l1 := gorgonia.Must(gorgonia.Mul(l0Drop, w1))
	l1Act := gorgonia.Must(gorgonia.Rectify(l1))
	l1Drop := gorgonia.Must(gorgonia.Dropout(l1Act, params.DropoutRate))

	pred := gorgonia.Must(gorgonia.Mul(l1Drop, w2))
	predSoftmax := gorgonia.Must(gorgonia.SoftMax(pred))

	crossEntropy := gorgonia.Must(gorgonia.Neg(
		gorgonia.Must(gorgonia.Mean(
			gorgonia.Must(gorgonia.Sum(
				gorgonia.Must(gorgonia.HadamardProd(
					yTensor,
					gorgonia.Must(gorgonia.Log(predSoftmax)))),
				1))))))

	l2w0 := gorgonia.Must(gorgonia.Mean(gorgonia.Must(gorgonia.Square(w0))))
	l2w1 := gorgonia.Must(gorgonia.Mean(gorgonia.Must(gorgonia.Square(w1))))
	l2w2 := gorgonia.Must(gorgonia.Mean(gorgonia.Must(gorgonia.Square(w2))))

	regularization := gorgonia.Must(gorgonia.Mul(
		gorgonia.NewConstant(params.L2Penalty),
		gorgonia.Must(gorgonia.Add(
			gorgonia.Must(gorgonia.Add(l2w0, l2w1)),
			l2w2,
		)),
	))

	loss := gorgonia.Must(gorgonia.Add(crossEntropy, regularization))

	if _, err := gorgonia.Grad(loss, w0, w1, w2); err != nil {
		return nil, fmt.Errorf("failed to compute gradients: %v", err)
	}

	vm := gorgonia.NewTapeMachine(g,
		gorgonia.WithLogger(nil),
		gorgonia.WithValueFmt("%3.3f"),
	)
	defer vm.Close()

	solver := gorgonia.NewAdamSolver(
		gorgonia.WithLearnRate(params.LearnRate),
		gorgonia.WithBeta1(0.9),
		gorgonia.WithBeta2(0.999),
		gorgonia.WithEps(1e-8),
		gorgonia.WithClip(1.0),
	)

	snapshot := func() []tensor.Tensor {
		return []tensor.Tensor{
			w0.Value().(tensor.Tensor).Clone().(tensor.Tensor),
			w1.Value().(tensor.Tensor).Clone().(tensor.Tensor),
			w2.Value().(tensor.Tensor).Clone().(tensor.Tensor),
		}
	}

	runBatch := func(sampleIndices []int) (float64, error) {
		batchFeatures := tensor.New(
			tensor.WithShape(batchSize, inputSize),
			tensor.WithBacking(flattenBatchFeatures(features, sampleIndices)))
		batchLabels := tensor.New(
			tensor.WithShape(batchSize, numClasses),
			tensor.WithBacking(flattenBatchLabels(labels, sampleIndices, numClasses)))

		if err := gorgonia.Let(xTensor, batchFeatures); err != nil {
			return 0, fmt.Errorf("failed to update x tensor: %v", err)
		}
		if err := gorgonia.Let(yTensor, batchLabels); err != nil {
			return 0, fmt.Errorf("failed to update y tensor: %v", err)
		}

		vm.Reset()
		if err := vm.RunAll(); err != nil {
			return 0, fmt.Errorf("forward/backward pass failed: %v", err)
		}

		return loss.Value().Data().(float64), nil
	}

	bestLoss := math.Inf(1)
	noImprovementCount := 0
	var bestWeights []tensor.Tensor

	for epoch := range params.Epochs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tracker.SetValue(int64(epoch))

		trainLoss := 0.0
		batches := trainSize / batchSize

		for batch := 0; batch < batches; batch++ {
			start := batch * batchSize
			end := start + batchSize
			if end > trainSize {
				break
			}

			batchLoss, err := runBatch(trainIndices[start:end])
			if err != nil {
				return nil, err
			}
			solver.Step(gorgonia.NodesToValueGrads(gorgonia.Nodes{w0, w1, w2}))
			trainLoss += batchLoss
		}

		avgTrainLoss := trainLoss / float64(batches)

		if epoch%params.ValidateEvery != 0 {
			continue
		}

		validBatches := validationSize / batchSize
		if validBatches == 0 {
			// Validation slice too small for a batch; keep the most
			// recent weights and rely on the epoch budget.
			bestWeights = snapshot()
			tracker.Message = fmt.Sprintf("Training - TL: %.6f", avgTrainLoss)
			continue
		}

		validLoss := 0.0
		for batch := 0; batch < validBatches; batch++ {
			start := batch * batchSize
			end := start + batchSize
			if end > validationSize {
				break
			}

			batchLoss, err := runBatch(validIndices[start:end])
			if err != nil {
				return nil, fmt.Errorf("validation %v", err)
			}
			validLoss += batchLoss
		}

		avgValidLoss := validLoss / float64(validBatches)

		if avgValidLoss < bestLoss {
			bestLoss = avgValidLoss
			noImprovementCount = 0
			bestWeights = snapshot()
		} else {
			noImprovementCount++
		}

		tracker.Message = fmt.Sprintf("Training - TL: %.6f, VL: %.6f", avgTrainLoss, avgValidLoss)

		if noImprovementCount >= params.Patience {
			break
		}
	}

	tracker.MarkAsDone()

	if bestWeights == nil {
		bestWeights = snapshot()
	}
	return bestWeights, nil
}
