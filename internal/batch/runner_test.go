package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/tickfoundry/tradesilver/internal/model"
)

const tradeHeader = "ts_recv,ts_event,rtype,publisher_id,instrument_id,action,side,depth,price,size,flags,ts_in_delta,sequence,symbol"

// 2018-04-02's full-day window is [2018-04-01T22:00Z, 2018-04-02T21:00Z).
// Instrument 100 reproduces the reference OHLC exactly; instrument 200 is
// noise with more volume.
const rawTrades = tradeHeader + "\n" +
	"2018-04-02T13:31:00Z,2018-04-02T13:31:00Z,0,1,100,T,A,0,2850000000000,1,0,0,1,ESM8\n" +
	"2018-04-02T14:00:00Z,2018-04-02T14:00:00Z,0,1,100,T,B,0,2870000000000,2,0,0,2,ESM8\n" +
	"2018-04-02T15:00:00Z,2018-04-02T15:00:00Z,0,1,100,T,A,0,2840000000000,3,0,0,3,ESM8\n" +
	"2018-04-02T19:00:00Z,2018-04-02T19:00:00Z,0,1,100,T,B,0,2860000000000,4,0,0,4,ESM8\n" +
	"2018-04-02T14:30:00Z,2018-04-02T14:30:00Z,0,1,200,T,A,0,2800000000000,500,0,0,5,ESU8\n"

// Two reference days: 2018-04-02 has data, 2018-04-03 has none.
const refTable = "time,open,high,low,close\n" +
	"2018-04-02,2850,2870,2840,2860\n" +
	"2018-04-03,2850,2870,2840,2860\n"

func setup(t *testing.T) (Config, string) {
	t.Helper()
	inDir, outDir := t.TempDir(), t.TempDir()

	refPath := filepath.Join(t.TempDir(), "reference.csv")
	if err := os.WriteFile(refPath, []byte(refTable), 0o644); err != nil {
		t.Fatalf("write reference: %v", err)
	}
	rawPath := filepath.Join(inDir, "glbx-mdp3-20180402.trades.csv")
	if err := os.WriteFile(rawPath, []byte(rawTrades), 0o644); err != nil {
		t.Fatalf("write raw trades: %v", err)
	}

	return Config{
		ReferencePath: refPath,
		InputDir:      inDir,
		OutputDir:     outDir,
		Session:       model.SessionElectronic,
	}, outDir
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type outRow struct {
	TsEvent      string `parquet:"ts_event"`
	InstrumentID int64  `parquet:"instrument_id"`
	Price        int64  `parquet:"price"`
	Size         int64  `parquet:"size"`
	Symbol       string `parquet:"symbol"`
}

func TestRunEndToEnd(t *testing.T) {
	cfg, outDir := setup(t)
	r, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if sum.Days != 2 {
		t.Errorf("Days = %d, want 2", sum.Days)
	}
	if sum.Written != 1 {
		t.Errorf("Written = %d, want 1", sum.Written)
	}
	// The empty day fails with NoCandidateData but the batch continues.
	if sum.Failed != 1 {
		t.Errorf("Failed = %d, want 1", sum.Failed)
	}

	outPath := filepath.Join(outDir, "20180402.parquet")
	rows, err := parquet.ReadFile[outRow](outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4 (only the matching instrument)", len(rows))
	}
	for _, row := range rows {
		if row.InstrumentID != 100 {
			t.Errorf("InstrumentID = %d, want 100 (exact match beats volume)", row.InstrumentID)
		}
	}

	// The day with no candidate data must not produce a file.
	if _, err := os.Stat(filepath.Join(outDir, "20180403.parquet")); err == nil {
		t.Error("output file exists for a day with no candidate data")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg, outDir := setup(t)
	r, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	first, err := os.Stat(filepath.Join(outDir, "20180402.parquet"))
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}

	r2, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	sum, err := r2.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}

	if sum.Written != 0 {
		t.Errorf("second run Written = %d, want 0", sum.Written)
	}
	if sum.AlreadyDone != 1 {
		t.Errorf("second run AlreadyDone = %d, want 1", sum.AlreadyDone)
	}

	second, err := os.Stat(filepath.Join(outDir, "20180402.parquet"))
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if !second.ModTime().Equal(first.ModTime()) {
		t.Error("output file rewritten on re-run")
	}
}

func TestRunCoverageWindow(t *testing.T) {
	cfg, _ := setup(t)
	cfg.CoverageStart = mustDate("2019-01-01")
	r, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.OutOfRange != 2 {
		t.Errorf("OutOfRange = %d, want 2", sum.OutOfRange)
	}
	if sum.Written != 0 {
		t.Errorf("Written = %d, want 0", sum.Written)
	}
}

func TestRunCancellation(t *testing.T) {
	cfg, _ := setup(t)
	r, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := r.Run(ctx)
	if err == nil {
		t.Fatal("Run with cancelled context succeeded, want error")
	}
	if sum.Written != 0 {
		t.Errorf("Written = %d, want 0 after immediate cancel", sum.Written)
	}
}
