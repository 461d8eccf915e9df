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

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/exascience/wub/lastal"
)

func TestParseOptions(t *testing.T) {
	options, err := parseOptions([]string{"P=4", "-Q=1", "v", " m = 100 "})
	if err != nil {
		t.Fatal(err)
	}
	if len(options) != 4 || options["P"] != "4" || options["Q"] != "1" || options["v"] != "" || options["m"] != "100" {
		t.Errorf("parseOptions failed: %v", options)
	}
	if _, err := parseOptions([]string{"=4"}); err == nil {
		t.Error("option without name accepted")
	}
}

func TestComparisonConfigDefaults(t *testing.T) {
	v, err := newComparisonConfig("")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := comparisonConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Lastdb.Executable != lastal.LastdbExecutable || cfg.Lastal.Executable != lastal.LastalExecutable {
		t.Errorf("default executables failed: %+v", cfg)
	}
	if !cfg.Cleanup || cfg.WorkDir != "" || len(cfg.Lastdb.Args) != 0 || len(cfg.Lastal.Args) != 0 {
		t.Errorf("defaults failed: %+v", cfg)
	}
}

func TestComparisonConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "wub.yaml")
	config := "lastdb:\n" +
		"  executable: /opt/last/bin/lastdb\n" +
		"  options: [\"P=8\"]\n" +
		"lastal:\n" +
		"  options:\n" +
		"    - Q=1\n" +
		"    - q=3\n" +
		"cleanup: false\n"
	if err := os.WriteFile(filename, []byte(config), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WUB_LASTAL_EXECUTABLE", "/usr/local/bin/lastal")
	v, err := newComparisonConfig(filename)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := comparisonConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Lastdb.Executable != "/opt/last/bin/lastdb" || cfg.Lastdb.Args["P"] != "8" {
		t.Errorf("lastdb settings failed: %+v", cfg.Lastdb)
	}
	if cfg.Lastal.Executable != "/usr/local/bin/lastal" {
		t.Errorf("environment override failed: %v", cfg.Lastal.Executable)
	}
	if len(cfg.Lastal.Args) != 2 || cfg.Lastal.Args["Q"] != "1" || cfg.Lastal.Args["q"] != "3" {
		t.Errorf("case sensitive lastal options failed: %v", cfg.Lastal.Args)
	}
	if cfg.Cleanup {
		t.Error("cleanup setting failed")
	}
}

func TestComparisonConfigMissingFile(t *testing.T) {
	if _, err := newComparisonConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing configuration file accepted")
	}
}
