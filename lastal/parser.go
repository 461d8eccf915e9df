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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/exascience/wub/utils"
)

// A Sequence is one side of a pairwise alignment, as described by an
// "s" line in lastal output.
type Sequence struct {
	Name   utils.Symbol
	Start  int  // zero-based start of the aligned region on Strand
	AlnLen int  // number of sequence bases in the aligned region
	Strand byte // '+' or '-'
	Len    int  // total length of the sequence
	Aln    string
}

// A Record is a single pairwise alignment block. Records are not
// modified after parsing.
type Record struct {
	Score int
	Ref   Sequence
	Query Sequence
}

// RefName returns the name of the reference sequence.
func (r *Record) RefName() string {
	return utils.SymbolName(r.Ref.Name)
}

// QueryName returns the name of the query sequence.
func (r *Record) QueryName() string {
	return utils.SymbolName(r.Query.Name)
}

/*
A Scanner reads alignment records from lastal output.

Comment lines start with '#'. An alignment block starts with an "a"
line carrying the score, immediately followed by two "s" lines for
the reference and the query. Any other line is skipped.

Successive calls to Scan step through the records. Scanning stops at
the end of the input or at the first malformed block, after which
Err reports the problem. A Scanner cannot be restarted.
*/
type Scanner struct {
	reader *bufio.Reader
	line   int
	record *Record
	err    error
	sc     StringScanner
}

// NewScanner returns a Scanner that reads from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// Record returns the record produced by the most recent call to Scan.
func (s *Scanner) Record() *Record {
	return s.record
}

// Err returns the first error encountered by the Scanner.
func (s *Scanner) Err() error {
	return s.err
}

// readLine returns the next line that is not a comment, without its
// line terminator.
func (s *Scanner) readLine() (string, bool) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			s.err = err
			return "", false
		}
		if line == "" && err == io.EOF {
			return "", false
		}
		s.line++
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, "#") {
			if err == io.EOF {
				return "", false
			}
			continue
		}
		return line, true
	}
}

func (s *Scanner) fail(format string, v ...interface{}) bool {
	s.err = fmt.Errorf("lastal output line %v: %v", s.line, fmt.Sprintf(format, v...))
	s.record = nil
	return false
}

// Scan advances to the next record, which is then available through
// Record. It returns false when there are no more records or an error
// occurred.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for {
		line, ok := s.readLine()
		if !ok {
			s.record = nil
			return false
		}
		if !strings.HasPrefix(line, "a ") {
			continue
		}
		score, err := parseScore(&s.sc, line)
		if err != nil {
			return s.fail("%v", err)
		}
		record := &Record{Score: score}
		if !s.scanSequence(&record.Ref, "reference") ||
			!s.scanSequence(&record.Query, "query") {
			return false
		}
		s.record = record
		return true
	}
}

func (s *Scanner) scanSequence(seq *Sequence, what string) bool {
	line, ok := s.readLine()
	if !ok {
		if s.err != nil {
			return false
		}
		return s.fail("missing %v line in alignment block", what)
	}
	if !strings.HasPrefix(line, "s ") {
		return s.fail("expected %v line in alignment block, got %q", what, line)
	}
	if err := parseSequence(&s.sc, line, seq); err != nil {
		return s.fail("%v line: %v", what, err)
	}
	return true
}

// parseScore extracts the score from an "a" line, which is the third
// token when splitting on single white space or '=' characters, as in
// "a score=123 EG2=0 E=1e-10".
func parseScore(sc *StringScanner, line string) (int, error) {
	sc.Reset(line)
	_, _ = sc.readToken()
	_, _ = sc.readToken()
	token, found := sc.readToken()
	if !found {
		return 0, fmt.Errorf("missing score in %q", line)
	}
	score, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid score in %q: %v", line, err)
	}
	return score, nil
}

// parseSequence parses an "s" line: the line tag followed by name,
// start, aligned length, strand, total length and aligned sequence.
func parseSequence(sc *StringScanner, line string, seq *Sequence) error {
	sc.Reset(line)
	_ = sc.readRequiredField("line tag")
	name := sc.readRequiredField("name")
	start := sc.readNonNegativeInt("start")
	alnLen := sc.readNonNegativeInt("aligned length")
	strand := sc.readRequiredField("strand")
	length := sc.readNonNegativeInt("sequence length")
	aln := sc.readRequiredField("aligned sequence")
	if err := sc.Err(); err != nil {
		return err
	}
	if strand != "+" && strand != "-" {
		return fmt.Errorf("invalid strand field %q", strand)
	}
	*seq = Sequence{
		Name:   utils.Intern(name),
		Start:  start,
		AlnLen: alnLen,
		Strand: strand[0],
		Len:    length,
		Aln:    aln,
	}
	return nil
}

// Parse parses all records in the given raw lastal output.
func Parse(raw []byte) (records []*Record, err error) {
	scanner := NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		records = append(records, scanner.Record())
	}
	return records, scanner.Err()
}
