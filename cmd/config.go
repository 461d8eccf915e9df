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
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/exascience/wub/lastal"
)

// Configuration keys for compare-genomes. Each key can also be set
// through an environment variable with prefix WUB, for example
// WUB_LASTAL_EXECUTABLE or WUB_CLEANUP.
//
// Options are lists of "k=value" or "k" entries. They are lists rather
// than maps because lastal option letters are case sensitive, and
// configuration map keys are not.
const (
	lastdbExecutableKey = "lastdb.executable"
	lastdbOptionsKey    = "lastdb.options"
	lastalExecutableKey = "lastal.executable"
	lastalOptionsKey    = "lastal.options"
	workDirKey          = "workdir"
	cleanupKey          = "cleanup"
)

func newComparisonConfig(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(lastdbExecutableKey, lastal.LastdbExecutable)
	v.SetDefault(lastalExecutableKey, lastal.LastalExecutable)
	v.SetDefault(lastdbOptionsKey, []string{})
	v.SetDefault(lastalOptionsKey, []string{})
	v.SetDefault(workDirKey, "")
	v.SetDefault(cleanupKey, true)
	v.SetEnvPrefix("WUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading configuration %v: %w", configFile, err)
		}
	}
	return v, nil
}

func parseOptions(entries []string) (map[string]string, error) {
	options := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, _ := strings.Cut(entry, "=")
		key = strings.TrimLeft(strings.TrimSpace(key), "-")
		if key == "" {
			return nil, fmt.Errorf("invalid option %q", entry)
		}
		options[key] = strings.TrimSpace(value)
	}
	return options, nil
}

func comparisonConfig(v *viper.Viper) (cfg lastal.Config, err error) {
	cfg.Lastdb.Executable = v.GetString(lastdbExecutableKey)
	if cfg.Lastdb.Args, err = parseOptions(v.GetStringSlice(lastdbOptionsKey)); err != nil {
		return cfg, fmt.Errorf("%v: %w", lastdbOptionsKey, err)
	}
	cfg.Lastal.Executable = v.GetString(lastalExecutableKey)
	if cfg.Lastal.Args, err = parseOptions(v.GetStringSlice(lastalOptionsKey)); err != nil {
		return cfg, fmt.Errorf("%v: %w", lastalOptionsKey, err)
	}
	cfg.WorkDir = v.GetString(workDirKey)
	cfg.Cleanup = v.GetBool(cleanupKey)
	return cfg, nil
}
