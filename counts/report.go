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
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/exascience/wub/internal"
)

// Report renders a count matrix as a grid of plots into a PDF file.
type Report struct {
	Filename string
	Method   Method
	Log      bool

	// CellSize is the width and height of each plot in the grid.
	// Zero means two inches.
	CellSize vg.Length
	// Bins is the number of histogram bins. Zero means 20.
	Bins int
}

// NewReport returns a report with default sizes.
func NewReport(filename string, method Method, logTransform bool) *Report {
	return &Report{Filename: filename, Method: method, Log: logTransform}
}

func (r *Report) cellSize() vg.Length {
	if r.CellSize == 0 {
		return 2 * vg.Inch
	}
	return r.CellSize
}

func (r *Report) bins() int {
	if r.Bins == 0 {
		return 20
	}
	return r.Bins
}

func (r *Report) histogram(matrix *CountMatrix, i int, column []float64) (*plot.Plot, error) {
	p := plot.New()
	h, err := plotter.NewHist(plotter.Values(column), r.bins())
	if err != nil {
		return nil, fmt.Errorf("histogram of %v: %w", matrix.Datasets[i], err)
	}
	p.Add(h)
	p.Title.Text = matrix.Datasets[i]
	return p, nil
}

func (r *Report) scatter(matrix *CountMatrix, i, j int, x, y []float64) (*plot.Plot, error) {
	p := plot.New()
	points := make(plotter.XYs, len(x))
	for k := range points {
		points[k].X, points[k].Y = x[k], y[k]
	}
	s, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("scatter plot of %v against %v: %w", matrix.Datasets[i], matrix.Datasets[j], err)
	}
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(s)
	corr, err := Correlate(matrix.Columns[j], matrix.Columns[i], r.Method, r.Log)
	if err != nil {
		return nil, err
	}
	p.Title.Text = fmt.Sprintf("R = %.2f", corr)
	return p, nil
}

/*
Write renders a pair grid of the datasets in the matrix: row i and
column j show dataset i against dataset j. Cells off the diagonal
are scatter plots annotated with the correlation coefficient of the
pair. Cells on the diagonal are histograms of a single dataset. With
Log set, plotted values are log(v+1).
*/
func (r *Report) Write(matrix *CountMatrix) (err error) {
	n := len(matrix.Datasets)
	if n == 0 {
		return errors.New("no datasets to plot")
	}
	if len(matrix.References) < 2 {
		return ErrTooFewValues
	}
	columns := matrix.Columns
	if r.Log {
		columns = make([][]float64, n)
		for i, column := range matrix.Columns {
			columns[i] = logTransformed(column)
		}
	}

	plots := make([][]*plot.Plot, n)
	for i := range plots {
		plots[i] = make([]*plot.Plot, n)
		for j := range plots[i] {
			var p *plot.Plot
			if i == j {
				p, err = r.histogram(matrix, i, columns[i])
			} else {
				p, err = r.scatter(matrix, i, j, columns[j], columns[i])
			}
			if err != nil {
				return err
			}
			if i == n-1 {
				p.X.Label.Text = matrix.Datasets[j]
			}
			if j == 0 {
				p.Y.Label.Text = matrix.Datasets[i]
			}
			plots[i][j] = p
		}
	}

	size := vg.Length(n) * r.cellSize()
	canvas := vgpdf.New(size, size)
	tiles := draw.Tiles{
		Rows:      n,
		Cols:      n,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}
	canvases := plot.Align(plots, tiles, draw.New(canvas))
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	file, err := os.Create(r.Filename)
	if err != nil {
		return err
	}
	defer internal.CloseWith(file, &err)
	_, err = canvas.WriteTo(file)
	return err
}
