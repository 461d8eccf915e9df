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

// Package lastal wraps the LAST aligner (lastdb and lastal), parses
// its MAF-style text output into alignment records, and compares a
// target assembly against a reference genome.
//
// A comparison keeps only the best scoring alignment per query
// sequence and reports the global accuracy (matched bases over
// alignment length) and the global coverage (reference bases covered
// by alignments over total reference length). Keeping only one
// alignment per query may discard shorter valid alignments, so the
// coverage tends to be underestimated.
//
// The aligners themselves are external programs that must be
// available on the PATH, or configured explicitly through Options.
package lastal
