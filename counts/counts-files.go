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

// Package counts loads per-reference read counts of several datasets,
// joins them into one matrix, and correlates the datasets.
package counts

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/wub/internal"
	"github.com/exascience/wub/utils"
)

// Column names that a counts file must have in its header.
const (
	ReferenceColumn = "Reference"
	CountColumn     = "Count"
)

// Row is one line of a counts file. References are interned with
// utils.Intern, so that equal names are equal symbols across datasets.
type Row struct {
	Reference utils.Symbol
	Count     float64
}

// Counts are the rows of one counts file. Name is the file's base name
// without its extension.
type Counts struct {
	Name string
	Rows []Row
}

// CountMatrix has one row per reference, in sorted order, and one
// column per dataset, in input order. Columns[j][i] is the count of
// References[i] in Datasets[j].
type CountMatrix struct {
	References []string
	Datasets   []string
	Columns    [][]float64
}

func columnIndex(header []string, name string) int {
	for i, column := range header {
		if column == name {
			return i
		}
	}
	return -1
}

// loadCountsFile reads a tab-separated counts file with a header that
// has at least a Reference and a Count column, in any order.
func loadCountsFile(filename string) (_ *Counts, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer internal.CloseWith(file, &err)
	input := bufio.NewReader(file)
	line, err := input.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("%v is not a counts file - missing header: %w", filename, err)
	}
	header := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	refIndex, countIndex := columnIndex(header, ReferenceColumn), columnIndex(header, CountColumn)
	if refIndex < 0 || countIndex < 0 {
		return nil, fmt.Errorf("%v is not a counts file - header needs %v and %v columns", filename, ReferenceColumn, CountColumn)
	}
	width := len(header)

	var rows []Row
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(input))
	p.Add(pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
		strs := data.([]string)
		batch := make([]Row, 0, len(strs))
		for _, str := range strs {
			str = strings.TrimRight(str, "\r")
			if str == "" {
				continue
			}
			fields := strings.Split(str, "\t")
			if len(fields) != width {
				p.SetErr(fmt.Errorf("invalid counts line in %v: %v", filename, str))
				return batch
			}
			count, err := strconv.ParseFloat(fields[countIndex], 64)
			if err != nil {
				p.SetErr(fmt.Errorf("invalid count in %v: %w", filename, err))
				return batch
			}
			batch = append(batch, Row{Reference: utils.Intern(fields[refIndex]), Count: count})
		}
		return batch
	})))
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		rows = append(rows, data.([]Row)...)
		return data
	})))
	p.Run()
	if err = p.Err(); err != nil {
		return nil, err
	}
	return &Counts{Name: utils.Fname(filename), Rows: rows}, nil
}

// LoadCounts loads the given counts files, in order. Each file is
// tab-separated, with a header that has at least a Reference and a
// Count column, in any order.
func LoadCounts(filenames []string) ([]*Counts, error) {
	result := make([]*Counts, 0, len(filenames))
	for _, filename := range filenames {
		counts, err := loadCountsFile(filename)
		if err != nil {
			return nil, err
		}
		result = append(result, counts)
	}
	return result, nil
}

// Join combines the counts of several datasets into one matrix over
// the sorted union of all references. A reference that does not occur
// in a dataset gets count 0. A dataset with more than one row for the
// same reference is an error.
func Join(datasets []*Counts) (*CountMatrix, error) {
	perDataset := make([]map[utils.Symbol]float64, len(datasets))
	union := make(map[utils.Symbol]bool)
	for j, dataset := range datasets {
		counts := make(map[utils.Symbol]float64, len(dataset.Rows))
		for _, row := range dataset.Rows {
			if _, found := counts[row.Reference]; found {
				return nil, fmt.Errorf("multiple rows for single reference in %v", dataset.Name)
			}
			counts[row.Reference] = row.Count
			union[row.Reference] = true
		}
		perDataset[j] = counts
	}

	references := make([]utils.Symbol, 0, len(union))
	for ref := range union {
		references = append(references, ref)
	}
	sort.Slice(references, func(i, j int) bool {
		return *references[i] < *references[j]
	})

	matrix := &CountMatrix{
		References: make([]string, len(references)),
		Datasets:   make([]string, len(datasets)),
		Columns:    make([][]float64, len(datasets)),
	}
	for i, ref := range references {
		matrix.References[i] = *ref
	}
	for j, dataset := range datasets {
		matrix.Datasets[j] = dataset.Name
		column := make([]float64, len(references))
		for i, ref := range references {
			column[i] = perDataset[j][ref]
		}
		matrix.Columns[j] = column
	}
	return matrix, nil
}
