package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// table is a numeric CSV file.
type table struct {
	header []string
	rows   [][]float64
	cols   int
}

func readTableFile(path string, header bool) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	t, err := readTable(f, header)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return t, nil
}

// readTable parses every record as float64. All records must have the same
// number of fields.
func readTable(r io.Reader, header bool) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	t := &table{cols: -1}
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parsing csv")
		}
		line++

		if header && t.header == nil {
			t.header = record
			t.cols = len(record)
			continue
		}

		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.NewValueError("readTable",
					"line "+strconv.Itoa(line)+", field "+strconv.Itoa(j+1)+": "+err.Error())
			}
			row[j] = v
		}
		t.rows = append(t.rows, row)
		if t.cols < 0 {
			t.cols = len(row)
		}
	}
	if t.cols < 0 {
		t.cols = 0
	}
	return t, nil
}

// resolveColumn turns a possibly negative column index into [0, cols).
func resolveColumn(col, cols int) (int, error) {
	if col < 0 {
		col += cols
	}
	if col < 0 || col >= cols {
		return 0, errors.NewValidationError("target-column", "out of range", col)
	}
	return col, nil
}

// split separates column target from the features. With an empty table the
// matrices are empty, which only the neighbors regressor accepts.
func (t *table) split(target int) (X, y *mat.Dense, err error) {
	target, err = resolveColumn(target, t.cols)
	if err != nil {
		return nil, nil, err
	}
	if len(t.rows) == 0 {
		return &mat.Dense{}, &mat.Dense{}, nil
	}
	if t.cols < 2 {
		return nil, nil, errors.NewValueError("split", "need at least one feature column besides the target")
	}

	X = mat.NewDense(len(t.rows), t.cols-1, nil)
	y = mat.NewDense(len(t.rows), 1, nil)
	for i, row := range t.rows {
		k := 0
		for j, v := range row {
			if j == target {
				y.Set(i, 0, v)
				continue
			}
			X.Set(i, k, v)
			k++
		}
	}
	return X, y, nil
}

// features returns the whole table as a feature matrix.
func (t *table) features() (*mat.Dense, error) {
	if len(t.rows) == 0 {
		return nil, errors.NewValueError("features", "no rows to predict")
	}
	X := mat.NewDense(len(t.rows), t.cols, nil)
	for i, row := range t.rows {
		X.SetRow(i, row)
	}
	return X, nil
}
