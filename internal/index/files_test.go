package index

import (
	"reflect"
	"testing"
	"time"
)

func TestFileDates(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		wantStart string
		wantEnd   string
		wantOK    bool
	}{
		{
			name:      "single date",
			file:      "glbx-mdp3-20180406.trades.csv",
			wantStart: "2018-04-06",
			wantEnd:   "2018-04-06",
			wantOK:    true,
		},
		{
			name:      "date range",
			file:      "glbx-mdp3-20180408-20180430.trades.csv",
			wantStart: "2018-04-08",
			wantEnd:   "2018-04-30",
			wantOK:    true,
		},
		{
			name:   "no date",
			file:   "readme.txt",
			wantOK: false,
		},
		{
			name:   "short digit run",
			file:   "notes-2018.csv",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := FileDates(tt.file)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got := start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	names := []string{
		"glbx-mdp3-20180406.trades.csv",
		"glbx-mdp3-20180408-20180430.trades.csv",
		"glbx-mdp3-20180507.trades.csv",
		"readme.txt",
	}

	// Window whose start and end dates both fall on 2018-04-08.
	start := time.Date(2018, 4, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2018, 4, 8, 21, 0, 0, 0, time.UTC)

	got := Candidates(names, start, end)
	want := []string{"glbx-mdp3-20180408-20180430.trades.csv"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates = %v, want %v", got, want)
	}
}

func TestCandidatesWindowStraddlesFiles(t *testing.T) {
	names := []string{
		"glbx-mdp3-20180406.trades.csv",
		"glbx-mdp3-20180408-20180430.trades.csv",
	}

	// Full-day window for 2018-04-08 starts on 2018-04-07 and ends on
	// 2018-04-08; only the range file covers either date.
	start := time.Date(2018, 4, 7, 22, 0, 0, 0, time.UTC)
	end := time.Date(2018, 4, 8, 21, 0, 0, 0, time.UTC)

	got := Candidates(names, start, end)
	want := []string{"glbx-mdp3-20180408-20180430.trades.csv"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates = %v, want %v", got, want)
	}

	// A window ending on the single-date file's day picks up both.
	start = time.Date(2018, 4, 5, 22, 0, 0, 0, time.UTC)
	end = time.Date(2018, 4, 6, 21, 0, 0, 0, time.UTC)

	got = Candidates(names, start, end)
	want = []string{"glbx-mdp3-20180406.trades.csv"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates = %v, want %v", got, want)
	}
}
