package dataset

import (
	"strconv"
	"strings"
)

// EncodeLabels is the inverse of ParseLabels.
func EncodeLabels(labels []int) string {
	tokens := make([]string, len(labels))
	for i, label := range labels {
		tokens[i] = strconv.Itoa(label)
	}
	return strings.Join(tokens, ValueSeparator)
}

// EncodeMatrix is the inverse of ParseMatrix.
func EncodeMatrix(rows [][]float64) string {
	rowStrings := make([]string, len(rows))
	for i, row := range rows {
		tokens := make([]string, len(row))
		for j, v := range row {
			tokens[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		rowStrings[i] = strings.Join(tokens, ValueSeparator)
	}
	return strings.Join(rowStrings, RowSeparator)
}

// EncodeRecord assembles a full input record line from its three
// sections, the inverse of ParseRecord.
func EncodeRecord(xTrain [][]float64, yTrain []int, xTest [][]float64) string {
	return strings.Join([]string{
		EncodeMatrix(xTrain),
		EncodeLabels(yTrain),
		EncodeMatrix(xTest),
	}, SectionSeparator)
}
