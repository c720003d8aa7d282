// Package writer persists reconciled per-day trade archives as parquet.
//
// One file per reference day, named <YYYYMMDD>.parquet. Two schema
// variants exist, differing only in the presence of the symbol column; the
// variant is chosen once per day from the source files, never probed per
// row. Files are written to a temp name and renamed into place, and an
// existence check lets the batch driver skip already-completed days so a
// killed batch can be restarted safely.
package writer
