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
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/exascience/wub/internal"
	"github.com/exascience/wub/lastal"
	"github.com/exascience/wub/utils"
)

// CompareGenomesHelp is the help string for this command.
const CompareGenomesHelp = "\ncompare-genomes parameters:\n" +
	"wub compare-genomes reference.fasta target.fasta\n" +
	"[--details file.tsv]\n" +
	"[--coverage file.tsv]\n" +
	"[--config file.yaml]\n" +
	"[--workdir path]\n" +
	"[--keep-workdir]\n" +
	"[--lastdb executable]\n" +
	"[--lastal executable]\n" +
	"[--timed]\n" +
	"[--log-path path]\n"

func writeTable(filename string, write func(io.Writer) error) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer internal.CloseWith(file, &err)
	out := bufio.NewWriter(file)
	if err = write(out); err != nil {
		return err
	}
	return out.Flush()
}

// sequenceFormat is the format lastal gets to see. Any file that is
// not recognizably FASTQ is passed on as FASTA.
func sequenceFormat(filename string) string {
	if format, err := utils.SequenceFormat(filename); err == nil {
		return format
	}
	return utils.Fasta
}

func formatFraction(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// CompareGenomes implements the wub compare-genomes command.
func CompareGenomes() error {
	var (
		details, coverage, configFile, workDir string
		lastdbExe, lastalExe, profile, logPath string
		keepWorkDir, timed                     bool
	)

	var flags flag.FlagSet

	flags.StringVar(&details, "details", "", "write per query alignment statistics to the specified file")
	flags.StringVar(&coverage, "coverage", "", "write per reference coverage to the specified file")
	flags.StringVar(&configFile, "config", "", "read lastdb and lastal settings from the specified file")
	flags.StringVar(&workDir, "workdir", "", "create the working directory for index files in the specified directory")
	flags.BoolVar(&keepWorkDir, "keep-workdir", false, "do not remove the working directory when done")
	flags.StringVar(&lastdbExe, "lastdb", "", "lastdb executable")
	flags.StringVar(&lastalExe, "lastal", "", "lastal executable")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(flags, 4, CompareGenomesHelp)

	reference := getFilename(os.Args[2], CompareGenomesHelp)
	target := getFilename(os.Args[3], CompareGenomesHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", reference) {
		sanityChecksFailed = true
	}

	if !checkExist("", target) {
		sanityChecksFailed = true
	}

	if details != "" && !checkCreate("--details", details) {
		sanityChecksFailed = true
	}

	if coverage != "" && !checkCreate("--coverage", coverage) {
		sanityChecksFailed = true
	}

	if configFile != "" && !checkExist("--config", configFile) {
		sanityChecksFailed = true
	}

	if profile != "" && !checkCreate("--profile", profile) {
		sanityChecksFailed = true
	}

	var cfg lastal.Config

	if !sanityChecksFailed {
		v, err := newComparisonConfig(configFile)
		if err != nil {
			log.Println("Error:", err)
			sanityChecksFailed = true
		} else {
			if lastdbExe != "" {
				v.Set(lastdbExecutableKey, lastdbExe)
			}
			if lastalExe != "" {
				v.Set(lastalExecutableKey, lastalExe)
			}
			if workDir != "" {
				v.Set(workDirKey, workDir)
			}
			if keepWorkDir {
				v.Set(cleanupKey, false)
			}
			if cfg, err = comparisonConfig(v); err != nil {
				log.Println("Error:", err)
				sanityChecksFailed = true
			}
		}
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, CompareGenomesHelp)
		os.Exit(1)
	}

	if sequenceFormat(target) == utils.Fastq {
		if _, found := cfg.Lastal.Args["Q"]; !found {
			log.Println("Warning: The target is a FASTQ file, but no -Q option is configured for lastal.")
		}
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " compare-genomes ", reference, " ", target)
	if details != "" {
		fmt.Fprint(&command, " --details ", details)
	}
	if coverage != "" {
		fmt.Fprint(&command, " --coverage ", coverage)
	}
	if configFile != "" {
		fmt.Fprint(&command, " --config ", configFile)
	}
	fmt.Fprint(&command, " --lastdb ", cfg.Lastdb.Executable, " --lastal ", cfg.Lastal.Executable)
	if cfg.WorkDir != "" {
		fmt.Fprint(&command, " --workdir ", cfg.WorkDir)
	}
	if !cfg.Cleanup {
		fmt.Fprint(&command, " --keep-workdir")
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

	ctx := context.Background()

	var comparison *lastal.Comparison
	if err := timedRun(timed, profile, "Aligning target to reference.", 1, func() (err error) {
		comparison, err = lastal.CompareGenomes(ctx, reference, target, cfg)
		return err
	}); err != nil {
		return err
	}
	if !cfg.Cleanup {
		log.Println("Working directory kept at", comparison.WorkDir)
	}

	var summary lastal.Summary
	if err := timedRun(timed, profile, "Summarizing alignments.", 2, func() (err error) {
		summary, err = lastal.Summarize(comparison.Stats)
		return err
	}); err != nil {
		return err
	}

	if details != "" || coverage != "" {
		if err := timedRun(timed, profile, "Writing alignment details.", 3, func() error {
			if details != "" {
				if err := writeTable(details, func(w io.Writer) error {
					return lastal.WriteStatsTable(w, comparison.Stats)
				}); err != nil {
					return err
				}
			}
			if coverage != "" {
				return writeTable(coverage, func(w io.Writer) error {
					return lastal.WriteCoverageTable(w, lastal.ReferenceCoverage(comparison.Records))
				})
			}
			return nil
		}); err != nil {
			return err
		}
	}

	log.Printf("%v queries aligned: %v columns, %v substitutions, %v insertions, %v deletions.\n",
		len(comparison.Stats), summary.AlnLength, summary.Substitutions, summary.Insertions, summary.Deletions)

	_, err := fmt.Fprintf(os.Stdout, "Accuracy\tCoverage\n%v\t%v\n", formatFraction(summary.Accuracy), formatFraction(summary.Coverage))
	return err
}
