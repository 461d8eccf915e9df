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
	"errors"
	"fmt"
	"sort"

	"github.com/exascience/pargo/parallel"
)

var (
	// ErrNoStatistics is returned when merging an empty list.
	ErrNoStatistics = errors.New("no statistics to merge")

	// ErrMultipleTags is returned when the statistics to merge do not
	// all have the same tag.
	ErrMultipleTags = errors.New("multiple tags not supported")

	// ErrNoBases is returned when identity or accuracy cannot be
	// computed because there are no aligned bases.
	ErrNoBases = errors.New("no aligned bases")
)

func checkTags(list []*Statistics) error {
	tag := list[0].Tag
	for _, s := range list[1:] {
		if s.Tag != tag {
			tags := make(map[string]bool)
			for _, s := range list {
				tags[s.Tag] = true
			}
			names := make([]string, 0, len(tags))
			for t := range tags {
				names = append(names, t)
			}
			sort.Strings(names)
			return fmt.Errorf("%w: %q", ErrMultipleTags, names)
		}
	}
	return nil
}

/*
Merge combines the statistics of several runs into one.

All inputs must have the same tag. Mapped and unmapped read counts
are summed, and all other read fields are concatenated in input
order. Error and indel counts are summed; error outcomes that sum up
to zero are left out. Base counts are summed, and identity and
accuracy are recomputed from the merged counts rather than averaged
over the inputs.

The inputs are not modified.
*/
func Merge(list []*Statistics) (*Statistics, error) {
	if len(list) == 0 {
		return nil, ErrNoStatistics
	}
	if err := checkTags(list); err != nil {
		return nil, err
	}
	merged := &Statistics{Tag: list[0].Tag}
	var readErr, baseErr error
	parallel.Do(
		func() { merged.ReadStats, readErr = mergeReadStats(list) },
		func() { merged.ErrorStats = mergeErrorStats(list) },
		func() { merged.IndelStats = mergeIndelStats(list) },
		func() { merged.BaseStats, baseErr = mergeBaseStats(list) },
	)
	if readErr != nil {
		return nil, readErr
	}
	if baseErr != nil {
		return nil, baseErr
	}
	return merged, nil
}

func mergeReadStats(list []*Statistics) (merged ReadStats, err error) {
	merged.Fields = make(map[string][]float64)
	for key := range list[0].ReadStats.Fields {
		var values []float64
		for i, s := range list {
			v, found := s.ReadStats.Fields[key]
			if !found {
				return merged, fmt.Errorf("read stats field %v missing in input %v (tag %v)", key, i, s.Tag)
			}
			values = append(values, v...)
		}
		merged.Fields[key] = values
	}
	for _, s := range list {
		merged.Mapped += s.ReadStats.Mapped
		merged.Unmapped += s.ReadStats.Unmapped
	}
	return merged, nil
}

func mergeErrorStats(list []*Statistics) ErrorStats {
	merged := make(ErrorStats)
	for _, s := range list {
		for context := range s.ErrorStats {
			if _, found := merged[context]; !found {
				merged[context] = make(map[string]int)
			}
		}
	}
	for context, outcomes := range merged {
		for _, outcome := range ErrorOutcomes {
			sum := 0
			for _, s := range list {
				sum += s.ErrorStats[context][outcome]
			}
			if sum != 0 {
				outcomes[outcome] = sum
			}
		}
	}
	return merged
}

func sumHistograms(histograms ...map[int]int) map[int]int {
	result := make(map[int]int)
	for _, histogram := range histograms {
		for length, count := range histogram {
			result[length] += count
		}
	}
	return result
}

func mergeIndelStats(list []*Statistics) (merged IndelStats) {
	insertions := make([]map[int]int, len(list))
	deletions := make([]map[int]int, len(list))
	for i, s := range list {
		insertions[i] = s.IndelStats.InsertionLengths
		deletions[i] = s.IndelStats.DeletionLengths
	}
	merged.InsertionLengths = sumHistograms(insertions...)
	merged.DeletionLengths = sumHistograms(deletions...)
	merged.InsertionComposition = make(map[string]int, len(Nucleotides))
	for _, nuc := range Nucleotides {
		sum := 0
		for _, s := range list {
			sum += s.IndelStats.InsertionComposition[nuc]
		}
		merged.InsertionComposition[nuc] = sum
	}
	return merged
}

func mergeBaseStats(list []*Statistics) (merged BaseStats, err error) {
	merged.Counters = make(map[string]int)
	for _, s := range list {
		b := s.BaseStats
		merged.Match += b.Match
		merged.Mismatch += b.Mismatch
		merged.Insertion += b.Insertion
		merged.Deletion += b.Deletion
		for key, count := range b.Counters {
			merged.Counters[key] += count
		}
	}
	err = merged.computeDerived()
	return merged, err
}

// computeDerived sets Identity and Accuracy from the base counts:
//
//   identity = match / (match + mismatch)
//   accuracy = match / (match + mismatch + insertion + deletion)
func (b *BaseStats) computeDerived() error {
	aligned := b.Match + b.Mismatch
	if aligned == 0 {
		return ErrNoBases
	}
	b.Identity = float64(b.Match) / float64(aligned)
	b.Accuracy = float64(b.Match) / float64(aligned+b.Insertion+b.Deletion)
	return nil
}
