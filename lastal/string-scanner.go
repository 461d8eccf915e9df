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
	"fmt"
	"strconv"
)

/*
A scanner to scan/parse ASCII strings representing lines in lastal
output.

The zero StringScanner is valid and empty.
*/
type StringScanner struct {
	index int
	data  string
	err   error
}

/*
Returns the error that occurred during scanning/parsing.
*/
func (sc *StringScanner) Err() error {
	return sc.err
}

/*
Resets the scanner, and initializes it with the given string.
*/
func (sc *StringScanner) Reset(s string) {
	sc.index = 0
	sc.data = s
	sc.err = nil
}

/*
Returns the number of ASCII characters that still need to be
scanned/parsed. Returns 0 if Err() would return a non-nil value.
*/
func (sc *StringScanner) Len() int {
	if sc.err != nil {
		return 0
	}
	return len(sc.data) - sc.index
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// readToken reads up to the next single separator, which is either
// white space or '='. Consecutive separators delimit empty tokens.
func (sc *StringScanner) readToken() (s string, found bool) {
	if sc.err != nil {
		return "", false
	}
	start := sc.index
	for end := sc.index; end < len(sc.data); end++ {
		if c := sc.data[end]; isSpace(c) || c == '=' {
			sc.index = end + 1
			return sc.data[start:end], true
		}
	}
	sc.index = len(sc.data)
	return sc.data[start:], start < len(sc.data)
}

// readField skips a run of white space and reads the next field up
// to the following white space.
func (sc *StringScanner) readField() (s string, found bool) {
	if sc.err != nil {
		return "", false
	}
	for sc.index < len(sc.data) && isSpace(sc.data[sc.index]) {
		sc.index++
	}
	start := sc.index
	for sc.index < len(sc.data) && !isSpace(sc.data[sc.index]) {
		sc.index++
	}
	return sc.data[start:sc.index], sc.index > start
}

func (sc *StringScanner) readRequiredField(what string) string {
	s, found := sc.readField()
	if !found && sc.err == nil {
		sc.err = fmt.Errorf("missing %v field", what)
	}
	return s
}

func (sc *StringScanner) readNonNegativeInt(what string) int {
	s := sc.readRequiredField(what)
	if sc.err != nil {
		return 0
	}
	value, err := strconv.Atoi(s)
	if err != nil {
		sc.err = fmt.Errorf("invalid %v field %q: %v", what, s, err)
		return 0
	}
	if value < 0 {
		sc.err = fmt.Errorf("negative %v field %q", what, s)
		return 0
	}
	return value
}
