// Package index answers "which raw files might contain records overlapping
// a UTC window" from the dates embedded in raw-data file names.
//
// File names carry either a single date ("glbx-mdp3-20180406.trades.csv")
// or an inclusive range ("glbx-mdp3-20180408-20180430.trades.csv"). Files
// with no parseable date are skipped, not an error. Candidate selection is
// deliberately loose: the extractor re-filters every row by event time, so
// a false positive here only costs I/O.
package index
