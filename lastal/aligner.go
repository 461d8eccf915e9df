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
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/exascience/wub/internal"
)

// Default executable names.
const (
	LastdbExecutable = "lastdb"
	LastalExecutable = "lastal"
)

// LastdbSuffixes are the extensions of the files that make up a
// complete lastdb index.
var LastdbSuffixes = []string{"bck", "des", "prj", "sds", "ssp", "suf", "tis"}

// Options configure a lastdb or lastal invocation.
type Options struct {
	// Executable is the program to run. The default name is used when
	// empty.
	Executable string
	// Args maps option letters to values, passed as "-k value". Empty
	// values produce a bare "-k" flag.
	Args map[string]string
}

func (opts Options) executable(defaultName string) string {
	if opts.Executable == "" {
		return defaultName
	}
	return opts.Executable
}

// arguments renders Args in sorted key order, so that command lines
// are reproducible.
func (opts Options) arguments() (args []string) {
	keys := make([]string, 0, len(opts.Args))
	for key := range opts.Args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "-"+strings.TrimLeft(key, "-"))
		if value := opts.Args[key]; value != "" {
			args = append(args, value)
		}
	}
	return args
}

// CheckLastdbFiles checks that all lastdb index files labeled with
// name exist within dir. It returns the missing extensions, or nil if
// none are missing.
func CheckLastdbFiles(dir, name string) (missing []string) {
	for _, suffix := range LastdbSuffixes {
		if !internal.FileExists(filepath.Join(dir, name+"."+suffix)) {
			missing = append(missing, suffix)
		}
	}
	return missing
}

// Lastdb builds a lastdb index for the reference FASTA file ref in
// dir, using name as the label of the index files. It returns the
// database prefix to pass to LastalAlign.
//
// If lastdb exits with an error, but all index files were written
// anyway, the index is still used.
func Lastdb(ctx context.Context, dir, name, ref string, opts Options) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	ref, err = filepath.Abs(ref)
	if err != nil {
		return "", err
	}
	if !internal.FileExists(dir) {
		return "", fmt.Errorf("directory not found: %v", dir)
	}
	executable := opts.executable(LastdbExecutable)
	args := append(opts.arguments(), name, ref)
	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if !internal.FileExists(ref) {
			return "", fmt.Errorf("reference not found: %v", ref)
		}
		if _, lerr := exec.LookPath(executable); lerr != nil {
			return "", fmt.Errorf("executable not found: %v", executable)
		}
		if missing := CheckLastdbFiles(dir, name); len(missing) > 0 {
			return "", fmt.Errorf("%v %v failed: %v (missing index files %v)\n%s",
				executable, strings.Join(args, " "), err, strings.Join(missing, ", "), output)
		}
		log.Printf("Warning: %v reported %v, but the index is complete.\n", executable, err)
	}
	return filepath.Join(dir, name), nil
}

// LastalAlign aligns the sequences in the query file against the
// lastdb index with the given database prefix, and returns the raw
// lastal output.
func LastalAlign(ctx context.Context, database, query string, opts Options) ([]byte, error) {
	query, err := filepath.Abs(query)
	if err != nil {
		return nil, err
	}
	if !internal.FileExists(query) {
		return nil, fmt.Errorf("query not found: %v", query)
	}
	dir, name := filepath.Split(database)
	executable := opts.executable(LastalExecutable)
	args := append(opts.arguments(), name, query)
	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if _, lerr := exec.LookPath(executable); lerr != nil {
			return nil, fmt.Errorf("executable not found: %v", executable)
		}
		return nil, fmt.Errorf("%v %v failed: %v\n%s", executable, strings.Join(args, " "), err, stderr.Bytes())
	}
	return stdout.Bytes(), nil
}
