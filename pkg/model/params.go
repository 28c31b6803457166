package model

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Params struct {
	Epochs          int
	BatchSize       int
	HiddenSize1     int
	HiddenSize2     int
	LearnRate       float64
	DropoutRate     float64
	L2Penalty       float64
	ValidationSplit float64
	ValidateEvery   int
	Patience        int
}

func (p *Params) Write(w io.Writer, title string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendRows([]table.Row{
		{"VQC_EPOCHS", fmt.Sprintf("%d", p.Epochs)},
		{"VQC_BATCH_SIZE", fmt.Sprintf("%d", p.BatchSize)},
		{"VQC_HIDDEN_SIZE_1", fmt.Sprintf("%d", p.HiddenSize1)},
		{"VQC_HIDDEN_SIZE_2", fmt.Sprintf("%d", p.HiddenSize2)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"VQC_LEARN_RATE", fmt.Sprintf("%.06f", p.LearnRate)},
		{"VQC_DROPOUT_RATE", fmt.Sprintf("%.04f", p.DropoutRate)},
		{"VQC_L2_PENALTY", fmt.Sprintf("%.04f", p.L2Penalty)},
		{"VQC_VALIDATION_SPLIT", fmt.Sprintf("%.02f", p.ValidationSplit)},
		{"VQC_VALIDATE_EVERY", fmt.Sprintf("%d", p.ValidateEvery)},
		{"VQC_PATIENCE", fmt.Sprintf("%d", p.Patience)},
	})
	t.Render()
}

func NewParamsFromDefaults() Params {
	return Params{
		Epochs:          Epochs(),
		BatchSize:       BatchSize(),
		HiddenSize1:     HiddenSize1(),
		HiddenSize2:     HiddenSize2(),
		LearnRate:       LearnRate(),
		DropoutRate:     DropoutRate(),
		L2Penalty:       L2Penalty(),
		ValidationSplit: ValidationSplit(),
		ValidateEvery:   ValidateEvery(),
		Patience:        Patience(),
	}
}

func envInt(name string, def func() int, dec func(v int) int) func() int {
	return func() int {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseInt(v, 10, 32); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = int(v)
			}
		}
		return dec(value)
	}
}

func envFloat64(name string, def func() float64, dec func(v float64) float64) func() float64 {
	return func() float64 {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseFloat(v, 64); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = v
			}
		}
		return dec(value)
	}
}

var (
	Epochs      = envInt("VQC_EPOCHS", func() int { return 200 }, func(v int) int { return max(1, v) })
	BatchSize   = envInt("VQC_BATCH_SIZE", func() int { return 25 }, func(v int) int { return max(1, v) })
	HiddenSize1 = envInt("VQC_HIDDEN_SIZE_1", func() int { return 16 }, func(v int) int { return max(2, v) })
	HiddenSize2 = envInt("VQC_HIDDEN_SIZE_2", func() int { return 8 }, func(v int) int { return max(2, v) })
)

var (
	LearnRate       = envFloat64("VQC_LEARN_RATE", func() float64 { return 0.001 }, func(v float64) float64 { return math.Max(1e-6, math.Min(1, v)) })
	DropoutRate     = envFloat64("VQC_DROPOUT_RATE", func() float64 { return 0.1 }, func(v float64) float64 { return math.Max(0, math.Min(0.9, v)) })
	L2Penalty       = envFloat64("VQC_L2_PENALTY", func() float64 { return 0.01 }, func(v float64) float64 { return math.Max(0, math.Min(1, v)) })
	ValidationSplit = envFloat64("VQC_VALIDATION_SPLIT", func() float64 { return 0.1 }, func(v float64) float64 { return math.Max(0, math.Min(0.5, v)) })
	ValidateEvery   = envInt("VQC_VALIDATE_EVERY", func() int { return 5 }, func(v int) int { return max(1, v) })
	Patience        = envInt("VQC_PATIENCE", func() int { return 10 }, func(v int) int { return max(1, v) })
)
