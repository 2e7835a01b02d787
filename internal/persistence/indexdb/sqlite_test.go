package indexdb

import (
	"path/filepath"
	"testing"

	"bioforge.ai/internal/sim/engine"
)

func testRecord(tick uint64, stage string) engine.TickRecord {
	return engine.TickRecord{
		Tick:                    tick,
		StageID:                 stage,
		OrganismsJSON:           `{"ORG-HP-01":{"biomass":{"value":0.1,"unit":"g"}}}`,
		MediaVolumeL:            500,
		MediaPH:                 7,
		DissolvedComponentsJSON: `[]`,
		DissolvedGasesJSON:      `[]`,
		AssetStatesJSON:         `{}`,
		EventsJSON:              `[]`,
	}
}

func TestSQLite_RunLifecycle(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "runs", "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	// Writes before StartRun have nowhere to go.
	if err := db.WriteTick(testRecord(0, engine.StageInitial)); err == nil {
		t.Fatal("write before StartRun must fail")
	}

	if err := db.StartRun("PROC-ASTA-01", []string{"ORG-HP-01"}); err != nil {
		t.Fatalf("start run: %v", err)
	}
	runID := db.RunID()
	if runID < 1 {
		t.Fatalf("run id = %d", runID)
	}

	records := []engine.TickRecord{
		testRecord(0, engine.StageInitial),
		testRecord(1, "MTHD-CULT-01"),
		testRecord(2, "MTHD-CULT-01"),
	}
	for _, rec := range records {
		if err := db.WriteTick(rec); err != nil {
			t.Fatalf("write tick %d: %v", rec.Tick, err)
		}
	}
	if err := db.FinishRun(2); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	n, err := db.TickCount(runID)
	if err != nil {
		t.Fatalf("tick count: %v", err)
	}
	if n != 3 {
		t.Fatalf("tick count = %d, want 3", n)
	}

	loaded, err := db.LoadTicks(runID)
	if err != nil {
		t.Fatalf("load ticks: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("loaded %d records", len(loaded))
	}
	for i, rec := range loaded {
		if rec != records[i] {
			t.Fatalf("record %d mismatch:\n got %+v\nwant %+v", i, rec, records[i])
		}
	}
}

func TestSQLite_RunsAreIsolated(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.StartRun("PROC-A", []string{"ORG-A"}); err != nil {
		t.Fatalf("start run: %v", err)
	}
	first := db.RunID()
	if err := db.WriteTick(testRecord(0, engine.StageInitial)); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := db.StartRun("PROC-B", []string{"ORG-B"}); err != nil {
		t.Fatalf("start second run: %v", err)
	}
	second := db.RunID()
	if second == first {
		t.Fatal("second run must get a fresh id")
	}
	for tick := uint64(0); tick < 2; tick++ {
		if err := db.WriteTick(testRecord(tick, "MTHD-1")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	n1, err := db.TickCount(first)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	n2, err := db.TickCount(second)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n1 != 1 || n2 != 2 {
		t.Fatalf("counts = %d, %d; want 1, 2", n1, n2)
	}
}
