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

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sequence file formats recognized by SequenceFormat.
const (
	Fasta = "fasta"
	Fastq = "fastq"
)

// Extension returns the extension of the base name of the given
// file, including the leading dot, or "" if there is none.
func Extension(filename string) string {
	return filepath.Ext(filepath.Base(filename))
}

// Fname returns the base name of the given file without its
// extension.
func Fname(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SequenceFormat determines from the file extension whether the given
// file is a FASTA or a FASTQ file.
func SequenceFormat(filename string) (string, error) {
	switch Extension(filename) {
	case ".fa", ".fasta":
		return Fasta, nil
	case ".fq", ".fastq":
		return Fastq, nil
	default:
		return "", fmt.Errorf("incorrect file format for %v: expected .fa, .fasta, .fq or .fastq", filename)
	}
}

// Mkdir creates the given directory, including parents, if it does
// not exist yet, and returns the path.
func Mkdir(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return path, err
	}
	return path, os.MkdirAll(path, 0700)
}
