package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bioforge.ai/internal/persistence/indexdb"
	persistlog "bioforge.ai/internal/persistence/log"
	"bioforge.ai/internal/schema"
	"bioforge.ai/internal/sim/engine"
	"bioforge.ai/internal/sim/knowledge"
)

func main() {
	var (
		kbDir       = flag.String("kb", "./knowledge", "knowledge base directory")
		processID   = flag.String("process", "", "process id to run (required)")
		organismIDs = flag.String("organisms", "", "comma-separated organism ids (required)")
		outDir      = flag.String("out", "./out", "output directory")
		dbPath      = flag.String("db", "", "optional sqlite run index path")
		jsonlLog    = flag.Bool("jsonl", false, "also write a compressed JSONL run log")
		mediaVolume = flag.Float64("media_volume", 500.0, "initial media volume in liters")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[simulate] ", log.LstdFlags|log.Lmicroseconds)

	if *processID == "" || *organismIDs == "" {
		flag.Usage()
		os.Exit(2)
	}

	kb, err := knowledge.Load(*kbDir)
	if err != nil {
		logger.Fatalf("load knowledge base: %v", err)
	}

	process, ok := kb.Processes[*processID]
	if !ok {
		logger.Fatalf("process %q not in knowledge base", *processID)
	}

	var organisms []schema.Organism
	var orgIDs []string
	for _, id := range strings.Split(*organismIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		org, ok := kb.Organisms[id]
		if !ok {
			logger.Fatalf("organism %q not in knowledge base", id)
		}
		organisms = append(organisms, org)
		orgIDs = append(orgIDs, id)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatalf("create output dir: %v", err)
	}

	csvPath := filepath.Join(*outDir, *processID+".csv")
	csvSink, err := persistlog.NewCSVWriter(csvPath)
	if err != nil {
		logger.Fatalf("open csv log: %v", err)
	}
	defer csvSink.Close()

	sinks := engine.MultiSink{csvSink}

	if *jsonlLog {
		jsonlSink, err := persistlog.NewJSONLZstdWriter(filepath.Join(*outDir, *processID+".jsonl.zst"))
		if err != nil {
			logger.Fatalf("open jsonl log: %v", err)
		}
		defer jsonlSink.Close()
		sinks = append(sinks, jsonlSink)
	}

	var idx *indexdb.SQLite
	if *dbPath != "" {
		idx, err = indexdb.Open(*dbPath)
		if err != nil {
			logger.Fatalf("open run index: %v", err)
		}
		defer idx.Close()
		if err := idx.StartRun(*processID, orgIDs); err != nil {
			logger.Fatalf("start indexed run: %v", err)
		}
		sinks = append(sinks, idx)
	}

	eng, err := engine.NewBuilder().
		WithOrganisms(organisms).
		WithAssets(sortedValues(kb.Assets, func(a schema.Asset) string { return a.AssetID })).
		WithRules(sortedValues(kb.Rules, func(r schema.Rule) string { return r.Name })).
		WithProcess(process).
		WithInitialMedia(knowledge.DefaultMedia(organisms, *mediaVolume)).
		WithTickSink(sinks).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Fatalf("build engine: %v", err)
	}

	if err := eng.Run(); err != nil {
		logger.Fatalf("run: %v", err)
	}

	if idx != nil {
		if err := idx.FinishRun(eng.CurrentTick()); err != nil {
			logger.Fatalf("finish indexed run: %v", err)
		}
	}

	fmt.Printf("run complete: %d ticks, log at %s\n", eng.CurrentTick(), csvPath)
	states := eng.OrganismStates()
	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		b := states[id].Biomass
		fmt.Printf("  %-16s final biomass %.4f %s\n", id, b.Value, b.Unit)
	}
}

func sortedValues[T any](m map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}
