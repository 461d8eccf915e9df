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
	"os"
	"path/filepath"
	"testing"
)

func TestFname(t *testing.T) {
	if Fname("/data/run1/counts.tsv") != "counts" {
		t.Error("Fname 1 failed")
	}
	if Fname("reads.fastq.gz") != "reads.fastq" {
		t.Error("Fname 2 failed")
	}
	if Fname("genome") != "genome" {
		t.Error("Fname 3 failed")
	}
}

func TestExtension(t *testing.T) {
	if Extension("/data/run1/counts.tsv") != ".tsv" {
		t.Error("Extension 1 failed")
	}
	if Extension("/data/run.1/genome") != "" {
		t.Error("Extension 2 failed")
	}
}

func TestSequenceFormat(t *testing.T) {
	for _, name := range []string{"ref.fa", "/x/ref.fasta"} {
		if format, err := SequenceFormat(name); err != nil || format != Fasta {
			t.Errorf("SequenceFormat(%v) = %v, %v", name, format, err)
		}
	}
	for _, name := range []string{"reads.fq", "/x/reads.fastq"} {
		if format, err := SequenceFormat(name); err != nil || format != Fastq {
			t.Errorf("SequenceFormat(%v) = %v, %v", name, format, err)
		}
	}
	if _, err := SequenceFormat("reads.bam"); err == nil {
		t.Error("SequenceFormat accepted a .bam file")
	}
}

func TestMkdir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	result, err := Mkdir(path)
	if err != nil || result != path {
		t.Fatalf("Mkdir failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		t.Error("Mkdir did not create the directory")
	}
	if _, err := Mkdir(path); err != nil {
		t.Error("Mkdir failed on an existing directory")
	}
}

func TestIntern(t *testing.T) {
	s1 := Intern("chr1")
	s2 := Intern(string([]byte("chr1")))
	if s1 != s2 {
		t.Error("Intern returned different symbols for equal strings")
	}
	if Intern("chr2") == s1 {
		t.Error("Intern returned the same symbol for different strings")
	}
	if SymbolName(s1) != "chr1" || SymbolName(nil) != "" {
		t.Error("SymbolName failed")
	}
}
