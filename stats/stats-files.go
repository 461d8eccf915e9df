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

package stats

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/exascience/pargo/parallel"

	"github.com/exascience/wub/internal"
)

// Store writes the statistics to a gob file, and returns the name of
// that file.
func Store(s *Statistics, filename string) (_ string, err error) {
	file, err := os.Create(filename)
	if err != nil {
		return filename, err
	}
	defer internal.CloseWith(file, &err)
	return filename, gob.NewEncoder(file).Encode(s)
}

// Load reads statistics from a gob file written by Store.
func Load(filename string) (s *Statistics, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer internal.CloseWith(file, &err)
	s = new(Statistics)
	if err = gob.NewDecoder(file).Decode(s); err != nil {
		return nil, fmt.Errorf("decoding %v: %w", filename, err)
	}
	return s, nil
}

// LoadAll loads statistics from several files in parallel. The result
// is in the order of the given filenames.
func LoadAll(filenames []string) ([]*Statistics, error) {
	if len(filenames) == 0 {
		return nil, ErrNoStatistics
	}
	result := make([]*Statistics, len(filenames))
	errs := make([]error, len(filenames))
	parallel.Range(0, len(filenames), len(filenames), func(low, high int) {
		for i := low; i < high; i++ {
			result[i], errs[i] = Load(filenames[i])
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// LoadAndMerge loads statistics from the given files and merges them.
func LoadAndMerge(filenames []string) (*Statistics, error) {
	list, err := LoadAll(filenames)
	if err != nil {
		return nil, err
	}
	return Merge(list)
}

func formatFloat(f float64) []byte {
	var s bytes.Buffer
	fmt.Fprintf(&s, "%.6f", f)
	b := s.Bytes()
	for i, c := range b {
		if c == '.' {
			for j := len(b) - 1; j > i; j-- {
				if b[j] != '0' {
					return b[:j+1]
				}
			}
			return b[:i]
		}
	}
	return b
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedLengths(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

// WriteReport writes a tab-separated summary of the statistics: one
// line per category, key and value. Read fields are summarized by
// their number of values and mean.
func WriteReport(w io.Writer, s *Statistics) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tag\t\t%v\n", s.Tag)

	fmt.Fprintf(&buf, "read_stats\tmapped\t%v\n", s.ReadStats.Mapped)
	fmt.Fprintf(&buf, "read_stats\tunmapped\t%v\n", s.ReadStats.Unmapped)
	for _, key := range sortedKeys(s.ReadStats.Fields) {
		values := s.ReadStats.Fields[key]
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		mean := 0.0
		if len(values) > 0 {
			mean = sum / float64(len(values))
		}
		fmt.Fprintf(&buf, "read_stats\t%v\tn=%v mean=%s\n", key, len(values), formatFloat(mean))
	}

	contexts := make([]string, 0, len(s.ErrorStats))
	for context := range s.ErrorStats {
		contexts = append(contexts, context)
	}
	sort.Strings(contexts)
	for _, context := range contexts {
		outcomes := s.ErrorStats[context]
		for _, outcome := range ErrorOutcomes {
			if count, found := outcomes[outcome]; found {
				fmt.Fprintf(&buf, "error_stats\t%v>%v\t%v\n", context, outcome, count)
			}
		}
	}

	for _, length := range sortedLengths(s.IndelStats.InsertionLengths) {
		fmt.Fprintf(&buf, "indel_stats\tinsertion_length=%v\t%v\n", length, s.IndelStats.InsertionLengths[length])
	}
	for _, length := range sortedLengths(s.IndelStats.DeletionLengths) {
		fmt.Fprintf(&buf, "indel_stats\tdeletion_length=%v\t%v\n", length, s.IndelStats.DeletionLengths[length])
	}
	for _, nuc := range Nucleotides {
		fmt.Fprintf(&buf, "indel_stats\tinsertion_composition=%v\t%v\n", nuc, s.IndelStats.InsertionComposition[nuc])
	}

	b := s.BaseStats
	fmt.Fprintf(&buf, "base_stats\tmatch\t%v\n", b.Match)
	fmt.Fprintf(&buf, "base_stats\tmismatch\t%v\n", b.Mismatch)
	fmt.Fprintf(&buf, "base_stats\tinsertion\t%v\n", b.Insertion)
	fmt.Fprintf(&buf, "base_stats\tdeletion\t%v\n", b.Deletion)
	counters := make([]string, 0, len(b.Counters))
	for key := range b.Counters {
		counters = append(counters, key)
	}
	sort.Strings(counters)
	for _, key := range counters {
		fmt.Fprintf(&buf, "base_stats\t%v\t%v\n", key, b.Counters[key])
	}
	fmt.Fprintf(&buf, "base_stats\tidentity\t%s\n", formatFloat(b.Identity))
	fmt.Fprintf(&buf, "base_stats\taccuracy\t%s\n", formatFloat(b.Accuracy))

	_, err := w.Write(buf.Bytes())
	return err
}
