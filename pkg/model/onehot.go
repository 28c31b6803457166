package model

func OneHotEncode(labels []float64, numClasses int) [][]float64 {
	oneHot := make([][]float64, len(labels))
	for i, label := range labels {
		row := make([]float64, numClasses)
		row[int(label)] = 1.0
		oneHot[i] = row
	}
	return oneHot
}

func flattenBatchFeatures(features [][]float64, indices []int) []float64 {
	batchSize := len(indices)
	if batchSize == 0 {
		return []float64{}
	}
	featureSize := len(features[0])
	flattened := make([]float64, batchSize*featureSize)

	for i, idx := range indices {
		copy(flattened[i*featureSize:], features[idx])
	}
	return flattened
}

func flattenBatchLabels(labels []float64, indices []int, numClasses int) []float64 {
	if len(indices) == 0 {
		return []float64{}
	}

	batch := make([]float64, len(indices))
	for i, idx := range indices {
		batch[i] = labels[idx]
	}

	flattened := make([]float64, 0, len(indices)*numClasses)
	for _, row := range OneHotEncode(batch, numClasses) {
		flattened = append(flattened, row...)
	}
	return flattened
}
