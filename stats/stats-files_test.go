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
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAndMerge(t *testing.T) {
	dir := t.TempDir()
	var filenames []string
	for i, s := range []*Statistics{
		makeStatistics("run", 10, 1, []float64{1, 2}, 9, 1, 0, 0),
		makeStatistics("run", 20, 2, []float64{3}, 8, 2, 0, 0),
		makeStatistics("run", 30, 3, []float64{4, 5}, 7, 3, 0, 0),
	} {
		name, err := Store(s, filepath.Join(dir, string(rune('a'+i))+".gob"))
		if err != nil {
			t.Fatal(err)
		}
		filenames = append(filenames, name)
	}
	merged, err := LoadAndMerge(filenames)
	if err != nil {
		t.Fatal(err)
	}
	if merged.ReadStats.Mapped != 60 || merged.ReadStats.Unmapped != 6 {
		t.Errorf("mapped/unmapped failed: %+v", merged.ReadStats)
	}
	if !floatsEqual(merged.ReadStats.Fields["alignment_lengths"], []float64{1, 2, 3, 4, 5}) {
		t.Errorf("input order not preserved: %v", merged.ReadStats.Fields["alignment_lengths"])
	}
	if merged.BaseStats.Identity != 0.8 {
		t.Errorf("identity failed: %v", merged.BaseStats.Identity)
	}
}

func TestLoadAllErrors(t *testing.T) {
	if _, err := LoadAll(nil); err != ErrNoStatistics {
		t.Errorf("expected ErrNoStatistics, got %v", err)
	}
	if _, err := LoadAll([]string{filepath.Join(t.TempDir(), "missing.gob")}); err == nil {
		t.Error("missing file accepted")
	}
}

func TestLoadAndMergeTags(t *testing.T) {
	dir := t.TempDir()
	f1, err := Store(makeStatistics("a", 1, 1, nil, 1, 1, 1, 1), filepath.Join(dir, "a.gob"))
	if err != nil {
		t.Fatal(err)
	}
	f2, err := Store(makeStatistics("b", 1, 1, nil, 1, 1, 1, 1), filepath.Join(dir, "b.gob"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAndMerge([]string{f1, f2}); !errors.Is(err, ErrMultipleTags) {
		t.Errorf("expected ErrMultipleTags, got %v", err)
	}
}

func TestFormatFloat(t *testing.T) {
	if string(formatFloat(0.5)) != "0.5" {
		t.Error("formatFloat 1 failed")
	}
	if string(formatFloat(1)) != "1" {
		t.Error("formatFloat 2 failed")
	}
	if string(formatFloat(2.0/3.0)) != "0.666667" {
		t.Error("formatFloat 3 failed")
	}
}

func TestWriteReport(t *testing.T) {
	s := makeStatistics("run", 3, 1, []float64{10, 20}, 3, 1, 0, 0)
	var buf bytes.Buffer
	if err := WriteReport(&buf, s); err != nil {
		t.Fatal(err)
	}
	report := buf.String()
	for _, line := range []string{
		"tag\t\trun\n",
		"read_stats\tmapped\t3\n",
		"read_stats\talignment_lengths\tn=2 mean=15\n",
		"error_stats\tACG>C\t10\n",
		"indel_stats\tinsertion_length=1\t5\n",
		"indel_stats\tinsertion_composition=T\t4\n",
		"base_stats\taln_length\t4\n",
		"base_stats\tidentity\t0.75\n",
	} {
		if !strings.Contains(report, line) {
			t.Errorf("report misses %q", line)
		}
	}
}
