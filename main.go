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

// wub is a set of tools for comparing genomes with lastal, merging
// alignment statistics of several runs, and correlating read counts.
//
// Please see https://github.com/exascience/wub for a documentation
// of the tool.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/exascience/wub/cmd"
)

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Available commands: compare-genomes, merge-stats, correlate-counts")
	fmt.Fprint(w, "\n", cmd.CompareGenomesHelp)
	fmt.Fprint(w, "\n", cmd.MergeStatsHelp)
	fmt.Fprint(w, "\n", cmd.CorrelateCountsHelp)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, cmd.HelpMessage)
	printHelp(w)
}

func printExtendedHelp(w io.Writer) {
	printHelp(w)
	fmt.Fprint(w, "\ncompare-genomes configuration file (YAML), also settable through WUB_ environment variables:\n"+
		"lastdb:\n"+
		"  executable: lastdb\n"+
		"  options: [\"P=4\"]\n"+
		"lastal:\n"+
		"  executable: lastal\n"+
		"  options: [\"Q=1\"]\n"+
		"workdir: /tmp\n"+
		"cleanup: true\n")
	fmt.Fprint(w, "\nAll commands also accept:\n"+
		"[--profile file]\n")
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "compare-genomes":
		err = cmd.CompareGenomes()
	case "merge-stats":
		err = cmd.MergeStats()
	case "correlate-counts":
		err = cmd.CorrelateCounts()
	case "help", "-help", "--help", "-h", "--h":
		printHelp(os.Stderr)
	case "help-extended", "-help-extended", "--help-extended", "-he", "--he":
		printExtendedHelp(os.Stderr)
	default:
		log.Println("Unknown command:", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
