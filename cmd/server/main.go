// Command server runs a simulation paced at wall-clock speed and serves live
// tick records to websocket observers at /v1/ws.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	persistlog "bioforge.ai/internal/persistence/log"
	"bioforge.ai/internal/schema"
	"bioforge.ai/internal/sim/engine"
	"bioforge.ai/internal/sim/knowledge"
	"bioforge.ai/internal/transport/observer"
)

func main() {
	var (
		addr        = flag.String("addr", "127.0.0.1:8080", "http listen address")
		kbDir       = flag.String("kb", "./knowledge", "knowledge base directory")
		processID   = flag.String("process", "", "process id to run (required)")
		organismIDs = flag.String("organisms", "", "comma-separated organism ids (required)")
		outDir      = flag.String("out", "./out", "output directory")
		tickMs      = flag.Int("tick_ms", 200, "wall-clock milliseconds per simulated hour")
		mediaVolume = flag.Float64("media_volume", 500.0, "initial media volume in liters")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

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

	csvSink, err := persistlog.NewCSVWriter(filepath.Join(*outDir, *processID+".csv"))
	if err != nil {
		logger.Fatalf("open csv log: %v", err)
	}
	defer csvSink.Close()

	hub := observer.NewHub()

	eng, err := engine.NewBuilder().
		WithOrganisms(organisms).
		WithAssets(sortedValues(kb.Assets, func(a schema.Asset) string { return a.AssetID })).
		WithRules(sortedValues(kb.Rules, func(r schema.Rule) string { return r.Name })).
		WithProcess(process).
		WithInitialMedia(knowledge.DefaultMedia(organisms, *mediaVolume)).
		WithTickSink(engine.MultiSink{csvSink, hub}).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Fatalf("build engine: %v", err)
	}

	obs := observer.NewServer(hub, observer.RunInfo{
		ProcessID: *processID,
		Organisms: orgIDs,
		StartedAt: time.Now().UTC(),
	}, logger)

	mux := http.NewServeMux()
	obs.Routes(mux)
	srv := &http.Server{Addr: *addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Printf("observer endpoints on http://%s (/v1/run, /v1/ws)", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http: %v", err)
		}
	}()

	err = eng.RunPaced(ctx, time.Duration(*tickMs)*time.Millisecond)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Printf("interrupted at tick %d", eng.CurrentTick())
	case err != nil:
		logger.Fatalf("run: %v", err)
	}

	// Leave the endpoints up until interrupted so observers can inspect the
	// final state.
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func sortedValues[T any](m map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}
