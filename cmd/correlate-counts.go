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
	"log"
	"os"
	"runtime"

	"github.com/exascience/wub/counts"
)

// CorrelateCountsHelp is the help string for this command.
const CorrelateCountsHelp = "\ncorrelate-counts parameters:\n" +
	"wub correlate-counts counts1.tsv counts2.tsv ...\n" +
	"[--report file.pdf]\n" +
	"[--method spearman|pearson]\n" +
	"[--log]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--log-path path]\n"

// CorrelateCounts implements the wub correlate-counts command.
func CorrelateCounts() error {
	var (
		report, methodName, profile, logPath string
		nrOfThreads                          int
		logTransform, timed                  bool
	)

	var flags flag.FlagSet

	flags.StringVar(&report, "report", "correlate_counts.pdf", "write the pair grid to the specified PDF file")
	flags.StringVar(&methodName, "method", "spearman", "correlation coefficient: spearman or pearson")
	flags.BoolVar(&logTransform, "log", false, "correlate and plot log(count+1)")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	inputs, next := getFilenames(2, CorrelateCountsHelp)

	parseFlags(flags, next, CorrelateCountsHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if len(inputs) == 0 {
		log.Println("Error: No input count files given.")
		sanityChecksFailed = true
	}

	for _, input := range inputs {
		if !checkExist("", input) {
			sanityChecksFailed = true
		}
	}

	if !checkCreate("--report", report) {
		sanityChecksFailed = true
	}

	method, err := counts.ParseMethod(methodName)
	if err != nil {
		log.Println("Error:", err)
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
		fmt.Fprint(os.Stderr, CorrelateCountsHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " correlate-counts")
	for _, input := range inputs {
		fmt.Fprint(&command, " ", input)
	}
	fmt.Fprint(&command, " --report ", report, " --method ", method)
	if logTransform {
		fmt.Fprint(&command, " --log")
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

	var matrix *counts.CountMatrix
	if err := timedRun(timed, profile, "Loading and joining counts.", 1, func() error {
		datasets, err := counts.LoadCounts(inputs)
		if err != nil {
			return err
		}
		matrix, err = counts.Join(datasets)
		return err
	}); err != nil {
		return err
	}
	log.Printf("Joined counts of %v references in %v datasets.\n", len(matrix.References), len(matrix.Datasets))

	if err := timedRun(timed, profile, "Correlating counts.", 2, func() error {
		correlations, err := counts.CorrelationMatrix(matrix, method, logTransform)
		if err != nil {
			return err
		}
		return counts.WriteCorrelationMatrix(os.Stdout, matrix.Datasets, correlations)
	}); err != nil {
		return err
	}

	return timedRun(timed, profile, "Plotting counts.", 3, func() error {
		return counts.NewReport(report, method, logTransform).Write(matrix)
	})
}
