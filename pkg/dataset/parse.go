package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Delimiters of the exercise record format. A record is a single line of
// three XXX-separated sections: training features, training labels and
// testing features. Feature sections are S-separated row strings of
// comma-separated floats; label sections are comma-separated integers.
const (
	SectionSeparator = "XXX"
	RowSeparator     = "S"
	ValueSeparator   = ","
)

// Canonical file names used by the exercise.
const (
	InputFile  = "1.in"
	AnswerFile = "1.ans"
)

var (
	ErrFormat      = errors.New("record must contain exactly three sections")
	ErrEmptyLabels = errors.New("label list is empty")
	ErrRagged      = errors.New("rows have inconsistent lengths")
)

// ParseLabels decodes a comma-separated list of integer labels.
func ParseLabels(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyLabels
	}

	tokens := strings.Split(s, ValueSeparator)
	labels := make([]int, len(tokens))
	for i, token := range tokens {
		if v, err := strconv.Atoi(strings.TrimSpace(token)); err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		} else {
			labels[i] = v
		}
	}
	return labels, nil
}

// ParseMatrix decodes an S-separated list of comma-separated float rows.
// All rows must have the same length.
func ParseMatrix(s string) ([][]float64, error) {
	rowStrings := strings.Split(s, RowSeparator)
	rows := make([][]float64, len(rowStrings))

	for i, rowString := range rowStrings {
		tokens := strings.Split(rowString, ValueSeparator)
		row := make([]float64, len(tokens))
		for j, token := range tokens {
			if v, err := strconv.ParseFloat(strings.TrimSpace(token), 64); err != nil {
				return nil, fmt.Errorf("row %d, value %d: %w", i, j, err)
			} else {
				row[j] = v
			}
		}
		if i > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d values, row 0 has %d", ErrRagged, i, len(row), len(rows[0]))
		}
		rows[i] = row
	}

	return rows, nil
}

// ParseRecord decodes a full input record into the training features,
// training labels and testing features it carries.
func ParseRecord(line string) ([][]float64, []int, [][]float64, error) {
	sections := strings.Split(line, SectionSeparator)
	if len(sections) != 3 {
		return nil, nil, nil, fmt.Errorf("%w: got %d", ErrFormat, len(sections))
	}

	xTrain, err := ParseMatrix(sections[0])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("training features: %w", err)
	}
	yTrain, err := ParseLabels(sections[1])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("training labels: %w", err)
	}
	xTest, err := ParseMatrix(sections[2])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("testing features: %w", err)
	}

	return xTrain, yTrain, xTest, nil
}

// Parse builds a Dataset from an input record and its answer line.
func Parse(record, answers string) (*Dataset, error) {
	xTrain, yTrain, xTest, err := ParseRecord(record)
	if err != nil {
		return nil, err
	}

	yTest, err := ParseLabels(answers)
	if err != nil {
		return nil, fmt.Errorf("testing labels: %w", err)
	}

	if len(yTrain) != len(xTrain) {
		return nil, fmt.Errorf("%w: %d training labels for %d training rows", ErrRagged, len(yTrain), len(xTrain))
	}
	if len(yTest) != len(xTest) {
		return nil, fmt.Errorf("%w: %d testing labels for %d testing rows", ErrRagged, len(yTest), len(xTest))
	}

	return newDataset(xTrain, yTrain, xTest, yTest)
}

// ReadRecord reads the first line of a record file.
func ReadRecord(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return "", fmt.Errorf("%s is empty", path)
	}
	return scanner.Text(), nil
}

// Load reads an input record file and an answer file and parses them
// into a Dataset. Both files are read once and closed before Load
// returns; no partial Dataset is produced on error.
func Load(inPath, ansPath string) (*Dataset, error) {
	record, err := ReadRecord(inPath)
	if err != nil {
		return nil, err
	}

	answers, err := ReadRecord(ansPath)
	if err != nil {
		return nil, err
	}

	return Parse(record, answers)
}
