// wub: tools for comparing genomes and merging alignment statistics.
// Copyright (c) 2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/exascience/wub/blob/master/LICENSE.txt>.

package counts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/exascience/pargo/parallel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Method is a correlation coefficient.
type Method int

// The supported correlation coefficients.
const (
	Spearman Method = iota
	Pearson
)

func (m Method) String() string {
	switch m {
	case Spearman:
		return "spearman"
	case Pearson:
		return "pearson"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod returns the Method with the given name.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "spearman":
		return Spearman, nil
	case "pearson":
		return Pearson, nil
	default:
		return 0, fmt.Errorf("unknown correlation method %v", name)
	}
}

// ErrTooFewValues is returned when correlating fewer than two pairs
// of values.
var ErrTooFewValues = errors.New("at least two values needed for a correlation")

// ranks returns the rank of each value, starting at 1. Tied values
// get the average of their ranks.
func ranks(x []float64) []float64 {
	sorted := append([]float64(nil), x...)
	indices := make([]int, len(x))
	floats.Argsort(sorted, indices)
	result := make([]float64, len(x))
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		rank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			result[indices[k]] = rank
		}
		i = j
	}
	return result
}

func logTransformed(x []float64) []float64 {
	result := make([]float64, len(x))
	for i, v := range x {
		result[i] = math.Log1p(v)
	}
	return result
}

// Correlate computes the correlation coefficient of x and y. With
// logTransform, values are transformed to log(v+1) first. The result
// is NaN when x or y is constant.
func Correlate(x, y []float64, method Method, logTransform bool) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("cannot correlate %v values with %v values", len(x), len(y))
	}
	if len(x) < 2 {
		return 0, ErrTooFewValues
	}
	if logTransform {
		x, y = logTransformed(x), logTransformed(y)
	}
	switch method {
	case Spearman:
		return stat.Correlation(ranks(x), ranks(y), nil), nil
	case Pearson:
		return stat.Correlation(x, y, nil), nil
	default:
		return 0, fmt.Errorf("unknown correlation method %v", method)
	}
}

// CorrelationMatrix correlates each pair of datasets in the given
// matrix. The result is symmetric, with ones on the diagonal.
func CorrelationMatrix(matrix *CountMatrix, method Method, logTransform bool) ([][]float64, error) {
	n := len(matrix.Columns)
	result := make([][]float64, n)
	for i := range result {
		result[i] = make([]float64, n)
	}
	if n == 0 {
		return result, nil
	}
	errs := make([]error, n)
	parallel.Range(0, n, 0, func(low, high int) {
		for i := low; i < high; i++ {
			result[i][i] = 1
			for j := i + 1; j < n; j++ {
				r, err := Correlate(matrix.Columns[i], matrix.Columns[j], method, logTransform)
				if err != nil {
					errs[i] = err
					return
				}
				result[i][j], result[j][i] = r, r
			}
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// WriteCorrelationMatrix writes a tab-separated correlation matrix
// with the dataset names as header and first column.
func WriteCorrelationMatrix(w io.Writer, datasets []string, correlations [][]float64) error {
	var buf bytes.Buffer
	buf.WriteString("Dataset")
	for _, name := range datasets {
		buf.WriteByte('\t')
		buf.WriteString(name)
	}
	buf.WriteByte('\n')
	for i, name := range datasets {
		buf.WriteString(name)
		for _, r := range correlations[i] {
			fmt.Fprintf(&buf, "\t%.4f", r)
		}
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}
