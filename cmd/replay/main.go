// Command replay summarizes a finished run from its log artifacts: tick
// count, stage transitions, final biomass and total material flows.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	persistlog "bioforge.ai/internal/persistence/log"
	"bioforge.ai/internal/schema"
	"bioforge.ai/internal/sim/engine"
)

func main() {
	var (
		csvPath   = flag.String("csv", "", "path to a run .csv log")
		jsonlPath = flag.String("jsonl", "", "path to a run .jsonl.zst log")
	)
	flag.Parse()

	if (*csvPath == "") == (*jsonlPath == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -csv or -jsonl is required")
		os.Exit(2)
	}

	var (
		records []engine.TickRecord
		err     error
	)
	if *jsonlPath != "" {
		records, err = persistlog.ReadJSONL(*jsonlPath)
	} else {
		records, err = readCSV(*csvPath)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "read run log:", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "run log is empty")
		os.Exit(1)
	}

	summarize(records)
}

func summarize(records []engine.TickRecord) {
	last := records[len(records)-1]
	fmt.Printf("run: %d ticks (%d records incl. pre-run snapshot)\n", last.Tick, len(records))

	prevStage := ""
	for _, rec := range records {
		if rec.StageID != prevStage {
			fmt.Printf("  tick %4d  stage %s\n", rec.Tick, rec.StageID)
			prevStage = rec.StageID
		}
	}

	var organisms map[string]struct {
		Biomass schema.Measurement `json:"biomass"`
	}
	if err := json.Unmarshal([]byte(last.OrganismsJSON), &organisms); err != nil {
		fmt.Fprintln(os.Stderr, "parse organisms_json:", err)
		os.Exit(1)
	}
	ids := make([]string, 0, len(organisms))
	for id := range organisms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Println("final biomass:")
	for _, id := range ids {
		b := organisms[id].Biomass
		fmt.Printf("  %-16s %.4f %s\n", id, b.Value, b.Unit)
	}

	consumed := map[string]float64{}
	added := map[string]float64{}
	for _, rec := range records {
		var events []engine.Event
		if err := json.Unmarshal([]byte(rec.EventsJSON), &events); err != nil {
			fmt.Fprintf(os.Stderr, "parse events_json at tick %d: %v\n", rec.Tick, err)
			os.Exit(1)
		}
		for _, ev := range events {
			switch ev.Type {
			case engine.EventMaterialConsumed:
				consumed[ev.ID] += ev.Amount
			case engine.EventMaterialAdded:
				added[ev.ID] += ev.Amount
			}
		}
	}
	printTotals("materials consumed (g):", consumed)
	printTotals("materials added (g):", added)
}

func printTotals(title string, totals map[string]float64) {
	if len(totals) == 0 {
		return
	}
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Println(title)
	for _, id := range ids {
		fmt.Printf("  %-16s %.2f\n", id, totals[id])
	}
}

func readCSV(path string) ([]engine.TickRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"tick", "stage_id", "organisms_json", "media_volume_l", "media_ph",
		"dissolved_components_json", "dissolved_gases_json", "asset_states_json", "events_json"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, required)
		}
	}

	var records []engine.TickRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		tick, err := strconv.ParseUint(row[col["tick"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad tick %q: %w", path, row[col["tick"]], err)
		}
		volume, err := strconv.ParseFloat(row[col["media_volume_l"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad media_volume_l: %w", path, err)
		}
		ph, err := strconv.ParseFloat(row[col["media_ph"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad media_ph: %w", path, err)
		}
		records = append(records, engine.TickRecord{
			Tick:                    tick,
			StageID:                 row[col["stage_id"]],
			OrganismsJSON:           row[col["organisms_json"]],
			MediaVolumeL:            volume,
			MediaPH:                 ph,
			DissolvedComponentsJSON: row[col["dissolved_components_json"]],
			DissolvedGasesJSON:      row[col["dissolved_gases_json"]],
			AssetStatesJSON:         row[col["asset_states_json"]],
			EventsJSON:              row[col["events_json"]],
		})
	}
	return records, nil
}
