// Package engine drives a bioprocess simulation tick by tick: one simulated
// hour per tick, a rule-driven workflow state machine over the process's
// method sequence, and a kinetics model mutating the shared media pool and
// per-organism biomass.
//
// An Engine owns its State exclusively and is single-threaded; callers that
// want parallel scenario exploration run independent engines built from
// independent builders.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"bioforge.ai/internal/schema"
)

// StageInitial is the stage_id sentinel for the pre-run snapshot.
const StageInitial = "INITIAL"

// TickSink receives one record per tick. Implementations live under
// internal/persistence and internal/transport; the engine only knows this
// contract.
type TickSink interface {
	WriteTick(rec TickRecord) error
}

// MultiSink fans a record out to several sinks; the first error aborts.
type MultiSink []TickSink

func (m MultiSink) WriteTick(rec TickRecord) error {
	for _, s := range m {
		if err := s.WriteTick(rec); err != nil {
			return err
		}
	}
	return nil
}

type Engine struct {
	state        State
	process      schema.Process
	methods      map[string]*schema.Method
	rules        map[string]schema.Rule
	organismDefs map[string]schema.Organism
	orgOrder     []string

	stepIndex         int
	history           biomassHistory
	growthMultipliers map[string]float64
	unitOps           map[string]UnitOp

	sink   TickSink
	logger *log.Logger
}

// Run drives the loop to completion: INITIAL snapshot, then ticks until the
// workflow index passes the end of the process's stage sequence.
func (e *Engine) Run() error {
	if err := e.logInitial(); err != nil {
		return err
	}
	for {
		more, err := e.Tick()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	e.logf("simulation complete after %d ticks", e.state.Tick)
	return nil
}

// RunPaced drives the loop like Run but spaces ticks by interval wall-clock
// time, for live observation, and stops early when ctx is cancelled.
func (e *Engine) RunPaced(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return e.Run()
	}
	if err := e.logInitial(); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			more, err := e.Tick()
			if err != nil {
				return err
			}
			if !more {
				e.logf("simulation complete after %d ticks", e.state.Tick)
				return nil
			}
		}
	}
}

func (e *Engine) logInitial() error {
	if id, ok := e.currentMethodID(); ok {
		e.logf("entering stage %s", id)
	}
	if e.sink == nil {
		return nil
	}
	rec, err := e.buildRecord(StageInitial)
	if err != nil {
		return err
	}
	if err := e.sink.WriteTick(rec); err != nil {
		return fmt.Errorf("write tick log: %w", err)
	}
	return nil
}

// Tick advances exactly one tick. It returns false once the workflow is
// terminal; the state is then final.
//
// Order within a tick: clear events, kinetics, unit operation, rule
// evaluation, snapshot log, then command execution. Evaluation and the log
// always see pre-command state and commands take effect next tick.
func (e *Engine) Tick() (bool, error) {
	if e.stepIndex >= len(e.process.DefaultWorkflow) {
		return false, nil
	}

	e.state.Events = e.state.Events[:0]
	e.state.Tick++
	e.state.TicksInCurrentStage++

	method := e.methods[e.process.DefaultWorkflow[e.stepIndex]]

	if err := e.biologicalTick(method); err != nil {
		return false, err
	}
	e.unitOperationTick(method)

	var queue []schema.Command
	for _, ruleID := range method.RequiredRuleIDs {
		rule, ok := e.rules[ruleID]
		if !ok {
			// Unknown rule ids soft-skip: the simulation keeps moving.
			continue
		}
		if e.evaluateCondition(&rule.Condition) {
			queue = append(queue, rule.Action)
		}
	}

	if e.sink != nil {
		rec, err := e.buildRecord(method.MethodID)
		if err != nil {
			return false, err
		}
		if err := e.sink.WriteTick(rec); err != nil {
			return false, fmt.Errorf("write tick log: %w", err)
		}
	}

	for _, cmd := range queue {
		e.executeCommand(cmd)
	}

	return true, nil
}

func (e *Engine) currentMethodID() (string, bool) {
	if e.stepIndex >= len(e.process.DefaultWorkflow) {
		return "", false
	}
	return e.process.DefaultWorkflow[e.stepIndex], true
}

// RegisterUnitOp installs or replaces the per-tick side model for a
// technique. Techniques without a registered op are no-ops.
func (e *Engine) RegisterUnitOp(technique string, op UnitOp) {
	e.unitOps[technique] = op
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// Read accessors. The returned maps are the engine's live state; callers must
// not retain them across ticks or mutate them.

func (e *Engine) CurrentTick() uint64 { return e.state.Tick }

func (e *Engine) OrganismStates() map[string]*OrganismState { return e.state.Organisms }

func (e *Engine) Assets() map[string]*LiveAsset { return e.state.Assets }

func (e *Engine) Media() *schema.MediaState { return &e.state.Media }

func (e *Engine) Process() *schema.Process { return &e.process }

// GrowthMultiplier returns the current multiplier for an organism id
// (1.0 when unset).
func (e *Engine) GrowthMultiplier(organismID string) float64 {
	if m, ok := e.growthMultipliers[organismID]; ok {
		return m
	}
	return 1.0
}
