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

// Package stats represents per-run alignment statistics and merges
// the statistics of several runs into one aggregate.
package stats

// ErrorOutcomes are the possible observations for a reference base in
// a given error context: one of the four bases, a deletion ('-'), or
// an insertion ('*').
var ErrorOutcomes = []string{"A", "C", "G", "T", "-", "*"}

// Nucleotides are the bases tracked in insertion compositions.
var Nucleotides = []string{"A", "C", "G", "T"}

// ReadStats are per-read statistics. Mapped and Unmapped are counts,
// every other field is a list of per-read values, such as alignment
// lengths or mapping qualities.
type ReadStats struct {
	Mapped   int
	Unmapped int
	Fields   map[string][]float64
}

// ErrorStats map an error context (for example "ACG") onto counts per
// observed outcome (see ErrorOutcomes). A missing outcome counts as
// zero.
type ErrorStats map[string]map[string]int

// IndelStats are histograms of indel lengths and the base composition
// of insertions.
type IndelStats struct {
	InsertionLengths     map[int]int
	DeletionLengths      map[int]int
	InsertionComposition map[string]int
}

// BaseStats are base level alignment counts. Identity and Accuracy
// are derived from the counts.
type BaseStats struct {
	Match     int
	Mismatch  int
	Insertion int
	Deletion  int
	// Counters holds any further base level counts, which are summed
	// on merge.
	Counters map[string]int
	Identity float64
	Accuracy float64
}

// Statistics are the statistics of one analysis run, or the merge of
// several runs sharing the same Tag.
type Statistics struct {
	Tag        string
	ReadStats  ReadStats
	ErrorStats ErrorStats
	IndelStats IndelStats
	BaseStats  BaseStats
}
