package index

import (
	"regexp"
	"sort"
	"time"
)

var (
	rangePattern  = regexp.MustCompile(`(\d{8})-(\d{8})`)
	singlePattern = regexp.MustCompile(`\d{8}`)
)

// FileDates parses the embedded date or date range from a file name.
// Reports ok=false when the name carries no parseable date. A single date
// yields an identical start and end.
func FileDates(name string) (start, end time.Time, ok bool) {
	if m := rangePattern.FindStringSubmatch(name); m != nil {
		s, err1 := time.Parse("20060102", m[1])
		e, err2 := time.Parse("20060102", m[2])
		if err1 == nil && err2 == nil {
			return s, e, true
		}
	}
	if m := singlePattern.FindString(name); m != "" {
		d, err := time.Parse("20060102", m)
		if err == nil {
			return d, d, true
		}
	}
	return time.Time{}, time.Time{}, false
}

// Candidates returns the file names that may hold records in [utcStart,
// utcEnd): a file qualifies when the window's start or end calendar date
// falls inside the file's inclusive date range. The result is deduplicated
// and sorted; the extractor re-orders rows by event time anyway.
func Candidates(names []string, utcStart, utcEnd time.Time) []string {
	startDate := truncate(utcStart)
	endDate := truncate(utcEnd)

	matched := make(map[string]struct{})
	for _, name := range names {
		fileStart, fileEnd, ok := FileDates(name)
		if !ok {
			continue
		}
		if covers(fileStart, fileEnd, startDate) || covers(fileStart, fileEnd, endDate) {
			matched[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(matched))
	for name := range matched {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func covers(start, end, d time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

func truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
