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

package lastal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/bits-and-blooms/bitset"
	"github.com/exascience/pargo/parallel"
	"github.com/google/uuid"

	"github.com/exascience/wub/internal"
	"github.com/exascience/wub/utils"
)

// ErrNoAlignments is returned by Summarize when there is nothing to
// compute accuracy or coverage from.
var ErrNoAlignments = errors.New("no alignments to summarize")

// AlignmentStats are the base level counts of a single alignment.
type AlignmentStats struct {
	RefName, QueryName string
	Score              int
	Matches            int
	Substitutions      int
	Insertions         int // query bases aligned to a reference gap
	Deletions          int // reference bases aligned to a query gap
	AlnLength          int // number of alignment columns
	RefAlnLen          int
	RefLen             int
}

// AlignmentStatsOf walks the alignment columns of a record and counts
// matches, substitutions, insertions and deletions. Bases are
// compared case-insensitively.
func AlignmentStatsOf(record *Record) (stats AlignmentStats, err error) {
	ref, query := record.Ref.Aln, record.Query.Aln
	if len(ref) != len(query) {
		return stats, fmt.Errorf("aligned sequences of %v and %v differ in length (%v and %v)",
			record.RefName(), record.QueryName(), len(ref), len(query))
	}
	stats.RefName = record.RefName()
	stats.QueryName = record.QueryName()
	stats.Score = record.Score
	stats.AlnLength = len(ref)
	stats.RefAlnLen = record.Ref.AlnLen
	stats.RefLen = record.Ref.Len
	for i := 0; i < len(ref); i++ {
		r, q := upper(ref[i]), upper(query[i])
		switch {
		case r == '-':
			stats.Insertions++
		case q == '-':
			stats.Deletions++
		case r != q:
			stats.Substitutions++
		default:
			stats.Matches++
		}
	}
	return stats, nil
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// BestPerQuery keeps only the highest scoring record for each query
// name. Among records with equal scores, the first one wins. The
// result is in order of first occurrence of each query.
func BestPerQuery(records []*Record) []*Record {
	index := make(map[utils.Symbol]int)
	var best []*Record
	for _, record := range records {
		if i, found := index[record.Query.Name]; !found {
			index[record.Query.Name] = len(best)
			best = append(best, record)
		} else if record.Score > best[i].Score {
			best[i] = record
		}
	}
	return best
}

// CompareRecords computes AlignmentStats for the best scoring record
// per query. The result is in the order of BestPerQuery.
func CompareRecords(records []*Record) ([]AlignmentStats, error) {
	return statsOf(BestPerQuery(records))
}

func statsOf(best []*Record) ([]AlignmentStats, error) {
	if len(best) == 0 {
		return nil, nil
	}
	result := make([]AlignmentStats, len(best))
	errs := make([]error, len(best))
	parallel.Range(0, len(best), 0, func(low, high int) {
		for i := low; i < high; i++ {
			result[i], errs[i] = AlignmentStatsOf(best[i])
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Summary holds the totals over all compared alignments.
type Summary struct {
	AlnLength, Substitutions, Insertions, Deletions int
	RefAlnLen, RefLen                               int
	Accuracy, Coverage                              float64
}

// Summarize sums the given stats and computes the global accuracy and
// coverage:
//
//   accuracy = (alignment length - substitutions - deletions - insertions) / alignment length
//   coverage = aligned reference length / reference length
func Summarize(stats []AlignmentStats) (summary Summary, err error) {
	for _, s := range stats {
		summary.AlnLength += s.AlnLength
		summary.Substitutions += s.Substitutions
		summary.Insertions += s.Insertions
		summary.Deletions += s.Deletions
		summary.RefAlnLen += s.RefAlnLen
		summary.RefLen += s.RefLen
	}
	if summary.AlnLength == 0 || summary.RefLen == 0 {
		return summary, ErrNoAlignments
	}
	summary.Accuracy = float64(summary.AlnLength-summary.Substitutions-summary.Deletions-summary.Insertions) / float64(summary.AlnLength)
	summary.Coverage = float64(summary.RefAlnLen) / float64(summary.RefLen)
	return summary, nil
}

// CoveredBases is the number of distinct reference positions covered
// by a set of alignments.
type CoveredBases struct {
	Covered, Length int
}

// ReferenceCoverage computes, per reference sequence, how many of its
// positions are covered by at least one of the given records.
// Overlapping alignments are counted once.
func ReferenceCoverage(records []*Record) map[string]CoveredBases {
	sets := make(map[utils.Symbol]*bitset.BitSet)
	lengths := make(map[utils.Symbol]int)
	for _, record := range records {
		ref := record.Ref
		set := sets[ref.Name]
		if set == nil {
			set = bitset.New(uint(ref.Len))
			sets[ref.Name] = set
			lengths[ref.Name] = ref.Len
		}
		start := ref.Start
		if ref.Strand == '-' {
			start = ref.Len - ref.Start - ref.AlnLen
		}
		for pos := start; pos < start+ref.AlnLen; pos++ {
			if pos >= 0 && pos < ref.Len {
				set.Set(uint(pos))
			}
		}
	}
	result := make(map[string]CoveredBases, len(sets))
	for name, set := range sets {
		result[*name] = CoveredBases{Covered: int(set.Count()), Length: lengths[name]}
	}
	return result
}

// Config holds the settings of a genome comparison.
type Config struct {
	Lastdb, Lastal Options
	// WorkDir is the directory in which a fresh working directory for
	// the index files is created. The system temporary directory is
	// used when empty.
	WorkDir string
	// Cleanup removes the working directory when done.
	Cleanup bool
}

// A Comparison is the result of CompareGenomes.
type Comparison struct {
	WorkDir string
	Records []*Record // best scoring record per query
	Stats   []AlignmentStats
}

// CompareGenomes indexes the reference FASTA file with lastdb, aligns
// the target sequences against it with lastal, and computes the stats
// of the best scoring alignment per target sequence.
func CompareGenomes(ctx context.Context, reference, target string, cfg Config) (comparison *Comparison, err error) {
	parent := cfg.WorkDir
	if parent == "" {
		parent = os.TempDir()
	}
	workDir := filepath.Join(parent, "wub-lastal-"+uuid.New().String())
	if err := os.MkdirAll(workDir, 0700); err != nil {
		return nil, err
	}
	if cfg.Cleanup {
		defer func() {
			if nerr := os.RemoveAll(workDir); err == nil {
				err = nerr
			}
		}()
	}
	database, err := Lastdb(ctx, workDir, "reference", reference, cfg.Lastdb)
	if err != nil {
		return nil, err
	}
	raw, err := LastalAlign(ctx, database, target, cfg.Lastal)
	if err != nil {
		return nil, err
	}
	records, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	best := BestPerQuery(records)
	stats, err := statsOf(best)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		WorkDir: workDir,
		Records: best,
		Stats:   stats,
	}, nil
}

// WriteStatsTable writes one tab-separated line per alignment.
func WriteStatsTable(w io.Writer, stats []AlignmentStats) error {
	if _, err := io.WriteString(w, "Reference\tQuery\tScore\tMatches\tSubstitutions\tInsertions\tDeletions\tAlnLength\tRefAlnLen\tRefLen\n"); err != nil {
		return err
	}
	buf := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(buf) }()
	for _, s := range stats {
		buf = buf[:0]
		buf = append(buf, s.RefName...)
		buf = append(buf, '\t')
		buf = append(buf, s.QueryName...)
		for _, v := range [...]int{s.Score, s.Matches, s.Substitutions, s.Insertions, s.Deletions, s.AlnLength, s.RefAlnLen, s.RefLen} {
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, int64(v), 10)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// WriteCoverageTable writes the distinct coverage per reference
// sequence, sorted by name.
func WriteCoverageTable(w io.Writer, coverage map[string]CoveredBases) error {
	names := make([]string, 0, len(coverage))
	for name := range coverage {
		names = append(names, name)
	}
	sort.Strings(names)
	if _, err := io.WriteString(w, "Reference\tCovered\tLength\n"); err != nil {
		return err
	}
	for _, name := range names {
		c := coverage[name]
		if _, err := fmt.Fprintf(w, "%v\t%v\t%v\n", name, c.Covered, c.Length); err != nil {
			return err
		}
	}
	return nil
}
