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
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/exascience/wub/stats"
)

// MergeStatsHelp is the help string for this command.
const MergeStatsHelp = "\nmerge-stats parameters:\n" +
	"wub merge-stats output.gob input1.gob input2.gob ...\n" +
	"[--report file.tsv]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--log-path path]\n"

// MergeStats implements the wub merge-stats command.
func MergeStats() error {
	var (
		report, profile, logPath string
		nrOfThreads              int
		timed                    bool
	)

	var flags flag.FlagSet

	flags.StringVar(&report, "report", "", "write a tab-separated summary of the merged statistics to the specified file")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, MergeStatsHelp)
		os.Exit(1)
	}
	output := getFilename(os.Args[2], MergeStatsHelp)
	inputs, next := getFilenames(3, MergeStatsHelp)

	parseFlags(flags, next, MergeStatsHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if len(inputs) == 0 {
		log.Println("Error: No input statistics files given.")
		sanityChecksFailed = true
	}

	for _, input := range inputs {
		if !checkExist("", input) {
			sanityChecksFailed = true
		}
	}

	if !checkCreate("", output) {
		sanityChecksFailed = true
	}

	if report != "" && !checkCreate("--report", report) {
		sanityChecksFailed = true
	}

	if profile != "" && !checkCreate("--profile", profile) {
		sanityChecksFailed = true
	}

	if nrOfThreads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, MergeStatsHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " merge-stats ", output)
	for _, input := range inputs {
		fmt.Fprint(&command, " ", input)
	}
	if report != "" {
		fmt.Fprint(&command, " --report ", report)
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	if profile != "" {
		fmt.Fprint(&command, " --profile ", profile)
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	// executing command

	log.Println("Executing command:\n", command.String())

	var merged *stats.Statistics
	if err := timedRun(timed, profile, "Loading and merging statistics.", 1, func() (err error) {
		merged, err = stats.LoadAndMerge(inputs)
		return err
	}); err != nil {
		return err
	}

	return timedRun(timed, profile, "Storing merged statistics.", 2, func() error {
		if _, err := stats.Store(merged, output); err != nil {
			return err
		}
		if report != "" {
			return writeTable(report, func(w io.Writer) error {
				return stats.WriteReport(w, merged)
			})
		}
		return nil
	})
}
