package engine

import (
	"math"

	"bioforge.ai/internal/schema"
)

// UnitOp is a technique-specific per-tick side model, independent of organism
// biology: reagent draw-down, phase transfers, anything a technique does to
// the media each hour. Ops mutate state directly and may append events.
type UnitOp func(st *State, method *schema.Method)

func (e *Engine) unitOperationTick(method *schema.Method) {
	if op, ok := e.unitOps[method.Technique]; ok {
		op(&e.state, method)
	}
}

const (
	saponificationNaOHID       = "CHEBI:32145"
	saponificationRateGPerL    = 0.5
	saponificationConsumableID = "CONS-NAOH-1M-01"
)

func defaultUnitOps() map[string]UnitOp {
	return map[string]UnitOp{
		"saponification": saponificationTick,
	}
}

// saponificationTick draws down sodium hydroxide at a fixed rate, capped at
// the concentration still in the pool, and records the consumable draw.
func saponificationTick(st *State, _ *schema.Method) {
	naoh := st.Media.Component(saponificationNaOHID)
	if naoh == nil || naoh.Concentration.Value <= 0 {
		return
	}
	consumed := math.Min(saponificationRateGPerL, naoh.Concentration.Value)
	naoh.Concentration.Value -= consumed
	st.Events = append(st.Events, materialConsumed(saponificationConsumableID, consumed*st.Media.Volume.Value))
}
