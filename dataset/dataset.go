// Package dataset provides tabular training data containers feeding the regression models.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	mat_ "github.com/statkit/go-bayesridge/mat"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrDatasetLenMismatch = errors.New("predictor rows have a different length than responses")
	ErrColLenMismatch     = errors.New("predictor rows have inconsistent lengths")
	ErrNameLenMismatch    = errors.New("number of names does not match number of predictors")
	ErrTargetNotFound     = errors.New("target column not found")
)

// Table is an immutable tabular dataset pairing named predictor columns with a
// response vector. Rows are observations.
type Table struct {
	Names []string
	X     [][]float64
	Y     []float64
}

// New returns an instance of a Table given predictor rows, responses, and column names.
func New(names []string, x [][]float64, y []float64) (*Table, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf(
			"predictors have %d rows, but responses have a length of %d, %w",
			len(x), len(y), ErrDatasetLenMismatch,
		)
	}

	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColLenMismatch)
		}
	}
	if len(names) != width {
		return nil, fmt.Errorf(
			"got %d names for %d predictors, %w",
			len(names), width, ErrNameLenMismatch,
		)
	}

	rows := make([][]float64, len(x))
	for i, row := range x {
		rows[i] = make([]float64, width)
		copy(rows[i], row)
	}
	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	namesCopy := make([]string, len(names))
	copy(namesCopy, names)

	return &Table{
		Names: namesCopy,
		X:     rows,
		Y:     yCopy,
	}, nil
}

// FromCSV reads a headered CSV stream treating the named target column as the
// response and every remaining column as a predictor.
func FromCSV(r io.Reader, target string) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv records, %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoTrainingData
	}

	header := records[0]
	targetIdx := -1
	names := make([]string, 0, len(header)-1)
	for i, name := range header {
		if name == target {
			targetIdx = i
			continue
		}
		names = append(names, name)
	}
	if targetIdx < 0 {
		return nil, fmt.Errorf("no column named %q, %w", target, ErrTargetNotFound)
	}

	x := make([][]float64, 0, len(records)-1)
	y := make([]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row := make([]float64, 0, len(record)-1)
		for j, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("unable to parse row %d column %d, %w", i+1, j, err)
			}
			if j == targetIdx {
				y = append(y, val)
				continue
			}
			row = append(row, val)
		}
		x = append(x, row)
	}

	return New(names, x, y)
}

// Mats converts the table into the design and target matrices consumed by the models.
func (t *Table) Mats() (*mat.Dense, *mat.Dense, error) {
	x, err := mat_.NewDenseFromArray(t.X)
	if err != nil {
		return nil, nil, err
	}
	yCopy := make([]float64, len(t.Y))
	copy(yCopy, t.Y)
	y := mat.NewDense(len(t.Y), 1, yCopy)
	return x, y, nil
}

// Copy returns a deep copy of the table
func (t *Table) Copy() *Table {
	cp, err := New(t.Names, t.X, t.Y)
	if err != nil {
		return nil
	}
	return cp
}
