package reference

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tickfoundry/tradesilver/internal/model"
	"github.com/tickfoundry/tradesilver/internal/session"
)

// Day-first layouts for timezone-naive reference times, tried in order.
var nyLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

var rawScale = decimal.New(1, 9)

// Load reads the reference table at path. Every row becomes one
// ReferenceDay carrying the given session type, with prices scaled to raw
// fixed-point units.
func Load(path string, sess model.Session) ([]model.ReferenceDay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read reference header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var days []model.ReferenceDay
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read reference row %d: %w", line+1, err)
		}
		line++

		date, err := parseNYDate(row[cols.time])
		if err != nil {
			return nil, fmt.Errorf("reference row %d: %w", line, err)
		}

		day := model.ReferenceDay{Date: date, Session: sess}
		if day.Open, err = scalePrice(row[cols.open]); err != nil {
			return nil, fmt.Errorf("reference row %d open: %w", line, err)
		}
		if day.High, err = scalePrice(row[cols.high]); err != nil {
			return nil, fmt.Errorf("reference row %d high: %w", line, err)
		}
		if day.Low, err = scalePrice(row[cols.low]); err != nil {
			return nil, fmt.Errorf("reference row %d low: %w", line, err)
		}
		if day.Close, err = scalePrice(row[cols.closep]); err != nil {
			return nil, fmt.Errorf("reference row %d close: %w", line, err)
		}
		days = append(days, day)
	}

	return days, nil
}

type columns struct {
	time, open, high, low, closep int
}

func mapColumns(header []string) (columns, error) {
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cols := columns{}
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{"time", &cols.time},
		{"open", &cols.open},
		{"high", &cols.high},
		{"low", &cols.low},
		{"close", &cols.closep},
	} {
		i, ok := idx[want.name]
		if !ok {
			return columns{}, fmt.Errorf("reference file missing column %q", want.name)
		}
		*want.dst = i
	}
	return cols, nil
}

// parseNYDate resolves a reference time value to its New York trading day.
// Naive values are taken as New York local; zoned values are converted.
func parseNYDate(val string) (time.Time, error) {
	s := strings.TrimSpace(val)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.In(session.NY)
		return dateOnly(t), nil
	}
	for _, layout := range nyLayouts {
		if t, err := time.ParseInLocation(layout, s, session.NY); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable reference time %q", val)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// scalePrice converts decimal price text in display units to a raw int64
// (× 1e9) exactly; float64 never touches a reference price.
func scalePrice(val string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(val))
	if err != nil {
		return 0, fmt.Errorf("bad price %q: %w", val, err)
	}
	scaled := d.Mul(rawScale)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("price %q does not scale to a whole raw unit", val)
	}
	return scaled.IntPart(), nil
}
