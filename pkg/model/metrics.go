package model

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Metrics struct {
	Accuracy        float64
	ConfusionMatrix [][]float64
	ClassPrecision  []float64
	ClassRecall     []float64
	F1Scores        []float64

	Samples []int
}

// MeanF1 averages the per-class F1 scores.
func (m *Metrics) MeanF1() float64 {
	if len(m.F1Scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, f1 := range m.F1Scores {
		sum += f1
	}
	return sum / float64(len(m.F1Scores))
}

func (m Metrics) Write(w io.Writer) error {
	numClasses := len(m.ConfusionMatrix)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Confusion Matrix")

	header := table.Row{""}
	for i := range numClasses {
		header = append(header, fmt.Sprintf("CLASS %d", i))
	}
	t.AppendHeader(header)

	for i := range numClasses {
		row := table.Row{fmt.Sprintf("CLASS %d", i)}
		rowTotal := 0.0
		for j := range numClasses {
			rowTotal += m.ConfusionMatrix[i][j]
		}
		for j := range numClasses {
			if rowTotal == 0 {
				row = append(row, "")
			} else {
				row = append(row, fmt.Sprintf("%6.2f%%", m.ConfusionMatrix[i][j]))
			}
		}
		t.AppendRow(row)
	}
	footer := table.Row{"ACCURACY"}
	for i := range numClasses {
		if i == numClasses-1 {
			footer = append(footer, fmt.Sprintf("%0.02f%%", m.Accuracy))
		} else {
			footer = append(footer, "")
		}
	}
	t.AppendFooter(footer)
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Class Metrics")
	t.AppendHeader(table.Row{"CLASS", "PRECISION", "RECALL", "F1 SCORE", "SAMPLES"})

	totalSamples := 0
	meanPrecision, meanRecall := 0.0, 0.0
	for i := range numClasses {
		t.AppendRow(table.Row{
			fmt.Sprintf("CLASS %d", i),
			fmt.Sprintf("%6.2f%%", m.ClassPrecision[i]),
			fmt.Sprintf("%6.2f%%", m.ClassRecall[i]),
			fmt.Sprintf("%6.2f%%", m.F1Scores[i]),
			fmt.Sprintf("%d", m.Samples[i]),
		})
		totalSamples += m.Samples[i]
		meanPrecision += m.ClassPrecision[i]
		meanRecall += m.ClassRecall[i]
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{
		"",
		fmt.Sprintf("%6.2f%%", meanPrecision/float64(numClasses)),
		fmt.Sprintf("%6.2f%%", meanRecall/float64(numClasses)),
		fmt.Sprintf("%6.2f%%", m.MeanF1()),
		fmt.Sprintf("%d", totalSamples),
	})
	t.Render()

	return nil
}

func calculateMetrics(confusionMatrix [][]int, total int) Metrics {
	numClasses := len(confusionMatrix)
	metrics := Metrics{
		ConfusionMatrix: make([][]float64, numClasses),
		ClassPrecision:  make([]float64, numClasses),
		ClassRecall:     make([]float64, numClasses),
		F1Scores:        make([]float64, numClasses),
		Samples:         make([]int, numClasses),
	}

	classTotals := make([]int, numClasses)
	for i := range numClasses {
		metrics.ConfusionMatrix[i] = make([]float64, numClasses)
		for j := 0; j < numClasses; j++ {
			classTotals[i] += confusionMatrix[i][j]
		}
		for j := 0; j < numClasses; j++ {
			if classTotals[i] > 0 {
				metrics.ConfusionMatrix[i][j] = float64(confusionMatrix[i][j]) / float64(classTotals[i]) * 100
			}
		}
		metrics.Samples[i] = classTotals[i]
	}

	for i := 0; i < numClasses; i++ {
		truePositives := confusionMatrix[i][i]
		falsePositives := 0
		falseNegatives := 0

		for j := 0; j < numClasses; j++ {
			if i != j {
				falsePositives += confusionMatrix[j][i]
				falseNegatives += confusionMatrix[i][j]
			}
		}

		if truePositives+falsePositives > 0 {
			metrics.ClassPrecision[i] = float64(truePositives) / float64(truePositives+falsePositives) * 100
		}

		if truePositives+falseNegatives > 0 {
			metrics.ClassRecall[i] = float64(truePositives) / float64(truePositives+falseNegatives) * 100
		}

		if metrics.ClassPrecision[i]+metrics.ClassRecall[i] > 0 {
			metrics.F1Scores[i] = 2 * (metrics.ClassPrecision[i] * metrics.ClassRecall[i]) /
				(metrics.ClassPrecision[i] + metrics.ClassRecall[i])
		}
	}

	correct := 0
	for i := range numClasses {
		correct += confusionMatrix[i][i]
	}
	if total > 0 {
		metrics.Accuracy = float64(correct) / float64(total) * 100
	}

	return metrics
}
