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
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/exascience/wub/utils"
)

func stringsEqual(s1, s2 []string) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i, s := range s1 {
		if s != s2[i] {
			return false
		}
	}
	return true
}

func floatsEqual(f1, f2 []float64) bool {
	if len(f1) != len(f2) {
		return false
	}
	for i, f := range f1 {
		if f != f2[i] {
			return false
		}
	}
	return true
}

func approx(x, y float64) bool {
	return math.Abs(x-y) < 1e-9
}

func writeCounts(t *testing.T, dir, name, contents string) string {
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, []byte(contents), 0600); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoadCounts(t *testing.T) {
	dir := t.TempDir()
	f1 := writeCounts(t, dir, "run1.tsv", "Reference\tCount\nchr2\t5\nchr1\t10\n")
	f2 := writeCounts(t, dir, "run2.counts.tsv", "Count\tLength\tReference\r\n7\t100\tchr3\r\n")
	datasets, err := LoadCounts([]string{f1, f2})
	if err != nil {
		t.Fatal(err)
	}
	if len(datasets) != 2 || datasets[0].Name != "run1" || datasets[1].Name != "run2.counts" {
		t.Fatalf("dataset names failed: %v", datasets)
	}
	rows := datasets[0].Rows
	if len(rows) != 2 || *rows[0].Reference != "chr2" || rows[0].Count != 5 || *rows[1].Reference != "chr1" || rows[1].Count != 10 {
		t.Errorf("rows of run1 failed: %v", rows)
	}
	rows = datasets[1].Rows
	if len(rows) != 1 || *rows[0].Reference != "chr3" || rows[0].Count != 7 {
		t.Errorf("rows of run2 failed: %v", rows)
	}
}

func TestLoadCountsManyRows(t *testing.T) {
	var contents strings.Builder
	contents.WriteString("Reference\tCount\n")
	for i := 0; i < 10000; i++ {
		contents.WriteString("ref")
		contents.WriteString(strings.Repeat("x", i%7))
		contents.WriteString("\t1\n")
	}
	datasets, err := LoadCounts([]string{writeCounts(t, t.TempDir(), "many.tsv", contents.String())})
	if err != nil {
		t.Fatal(err)
	}
	rows := datasets[0].Rows
	if len(rows) != 10000 {
		t.Fatalf("expected 10000 rows, got %v", len(rows))
	}
	for i, row := range rows {
		if *row.Reference != "ref"+strings.Repeat("x", i%7) {
			t.Fatalf("row order not preserved at %v: %v", i, *row.Reference)
		}
	}
}

func TestLoadCountsErrors(t *testing.T) {
	dir := t.TempDir()
	for name, contents := range map[string]string{
		"empty.tsv":     "",
		"header.tsv":    "Name\tCount\nchr1\t1\n",
		"count.tsv":     "Reference\tCount\nchr1\tmany\n",
		"truncated.tsv": "Reference\tCount\nchr1\n",
	} {
		if _, err := LoadCounts([]string{writeCounts(t, dir, name, contents)}); err == nil {
			t.Errorf("%v accepted", name)
		}
	}
	if _, err := LoadCounts([]string{filepath.Join(dir, "missing.tsv")}); err == nil {
		t.Error("missing file accepted")
	}
}

func TestLoadCountsLateError(t *testing.T) {
	var contents strings.Builder
	contents.WriteString("Reference\tCount\n")
	for i := 0; i < 20000; i++ {
		contents.WriteString("ref\t1\n")
	}
	contents.WriteString("ref\tnone\n")
	for i := 0; i < 20000; i++ {
		contents.WriteString("ref\t2\n")
	}
	filename := writeCounts(t, t.TempDir(), "late.tsv", contents.String())
	for i := 0; i < 10; i++ {
		datasets, err := LoadCounts([]string{filename})
		if err == nil {
			t.Fatal("invalid count accepted")
		}
		if datasets != nil {
			t.Fatal("counts returned with an error")
		}
	}
}

func newCounts(name string, refs []string, values []float64) *Counts {
	c := &Counts{Name: name}
	for i, ref := range refs {
		c.Rows = append(c.Rows, Row{Reference: utils.Intern(ref), Count: values[i]})
	}
	return c
}

func TestJoin(t *testing.T) {
	matrix, err := Join([]*Counts{
		newCounts("a", []string{"chr2", "chr1"}, []float64{5, 10}),
		newCounts("b", []string{"chr3", "chr1"}, []float64{7, 1}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !stringsEqual(matrix.References, []string{"chr1", "chr2", "chr3"}) {
		t.Errorf("references failed: %v", matrix.References)
	}
	if !stringsEqual(matrix.Datasets, []string{"a", "b"}) {
		t.Errorf("datasets failed: %v", matrix.Datasets)
	}
	if !floatsEqual(matrix.Columns[0], []float64{10, 5, 0}) {
		t.Errorf("column a failed: %v", matrix.Columns[0])
	}
	if !floatsEqual(matrix.Columns[1], []float64{1, 0, 7}) {
		t.Errorf("column b failed: %v", matrix.Columns[1])
	}
}

func TestJoinDuplicates(t *testing.T) {
	_, err := Join([]*Counts{
		newCounts("a", []string{"chr1"}, []float64{1}),
		newCounts("dup", []string{"chr1", "chr2", "chr1"}, []float64{1, 2, 3}),
	})
	if err == nil || !strings.Contains(err.Error(), "multiple rows for single reference in dup") {
		t.Errorf("duplicate reference not reported: %v", err)
	}
}

func TestRanks(t *testing.T) {
	if r := ranks([]float64{30, 10, 20}); !floatsEqual(r, []float64{3, 1, 2}) {
		t.Errorf("ranks 1 failed: %v", r)
	}
	if r := ranks([]float64{5, 1, 5, 5, 0}); !floatsEqual(r, []float64{4, 2, 4, 4, 1}) {
		t.Errorf("ranks 2 failed: %v", r)
	}
}

func TestCorrelate(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 4, 9, 16, 1000}
	if r, err := Correlate(x, y, Spearman, false); err != nil || !approx(r, 1) {
		t.Errorf("spearman of monotone relation failed: %v %v", r, err)
	}
	if r, err := Correlate(x, y, Pearson, false); err != nil || r >= 0.9 {
		t.Errorf("pearson of non-linear relation failed: %v %v", r, err)
	}
	reversed := []float64{5, 4, 3, 2, 1}
	if r, err := Correlate(x, reversed, Pearson, false); err != nil || !approx(r, -1) {
		t.Errorf("pearson of reversed values failed: %v %v", r, err)
	}
	if r, err := Correlate(x, y, Spearman, true); err != nil || !approx(r, 1) {
		t.Errorf("log transform changed ranks: %v %v", r, err)
	}
	if _, err := Correlate(x, y[:2], Spearman, false); err == nil {
		t.Error("length mismatch accepted")
	}
	if _, err := Correlate(x[:1], y[:1], Spearman, false); err != ErrTooFewValues {
		t.Errorf("expected ErrTooFewValues, got %v", err)
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{Spearman, Pearson} {
		if parsed, err := ParseMethod(m.String()); err != nil || parsed != m {
			t.Errorf("ParseMethod(%v) failed: %v %v", m, parsed, err)
		}
	}
	if _, err := ParseMethod("kendall"); err == nil {
		t.Error("unknown method accepted")
	}
}

func TestCorrelationMatrix(t *testing.T) {
	matrix := &CountMatrix{
		References: []string{"r1", "r2", "r3", "r4"},
		Datasets:   []string{"a", "b", "c"},
		Columns: [][]float64{
			{1, 2, 3, 4},
			{2, 4, 6, 8},
			{4, 3, 2, 1},
		},
	}
	correlations, err := CorrelationMatrix(matrix, Pearson, false)
	if err != nil {
		t.Fatal(err)
	}
	expected := [][]float64{{1, 1, -1}, {1, 1, -1}, {-1, -1, 1}}
	for i := range expected {
		for j := range expected[i] {
			if !approx(correlations[i][j], expected[i][j]) {
				t.Errorf("correlation %v,%v: expected %v, got %v", i, j, expected[i][j], correlations[i][j])
			}
		}
	}
	var buf bytes.Buffer
	if err := WriteCorrelationMatrix(&buf, matrix.Datasets, correlations); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "Dataset\ta\tb\tc" || lines[3] != "c\t-1.0000\t-1.0000\t1.0000" {
		t.Errorf("correlation table failed: %q", buf.String())
	}
}

func TestReportWrite(t *testing.T) {
	matrix := &CountMatrix{
		References: []string{"r1", "r2", "r3", "r4"},
		Datasets:   []string{"a", "b"},
		Columns:    [][]float64{{1, 20, 3, 40}, {2, 30, 1, 50}},
	}
	filename := filepath.Join(t.TempDir(), "report.pdf")
	if err := NewReport(filename, Spearman, true).Write(matrix); err != nil {
		t.Fatal(err)
	}
	contents, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(contents, []byte("%PDF")) {
		t.Error("report is not a PDF file")
	}
	if err := NewReport(filename, Spearman, false).Write(&CountMatrix{}); err == nil {
		t.Error("empty matrix accepted")
	}
}

func BenchmarkCorrelationMatrix(b *testing.B) {
	matrix := &CountMatrix{Datasets: make([]string, 8), Columns: make([][]float64, 8)}
	for j := range matrix.Columns {
		column := make([]float64, 50000)
		for i := range column {
			column[i] = float64((i * (j + 3)) % 977)
		}
		matrix.Columns[j] = column
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CorrelationMatrix(matrix, Spearman, true); err != nil {
			b.Fatal(err)
		}
	}
}
