package engine

import "bioforge.ai/internal/schema"

// evaluateCondition interprets one condition against post-kinetics state.
// Unknown kinds, absent molecules, assets or parameters evaluate to false
// rather than erroring.
func (e *Engine) evaluateCondition(c *schema.Condition) bool {
	switch c.Type {
	case schema.CondTimeInStage:
		return e.state.TicksInCurrentStage >= c.Ticks

	case schema.CondBiomassStationary:
		if c.Window <= 0 || e.history.Len() < c.Window {
			return false
		}
		latest := e.history.FromLatest(0)
		past := e.history.FromLatest(c.Window - 1)
		if past == 0 {
			return false
		}
		rate := (latest - past) / past / float64(c.Window)
		return rate < c.Threshold

	case schema.CondProductAmount:
		// Every organism yielding the molecule contributes: co-producers are
		// summed, not picked apart.
		produced := 0.0
		for _, orgID := range e.orgOrder {
			def := e.organismDefs[orgID]
			if yieldMgG, ok := def.YieldFor(c.MoleculeName); ok {
				produced += e.state.Organisms[orgID].Biomass.Value * yieldMgG / 1000.0
			}
		}
		return produced >= c.TargetGrams

	case schema.CondMediaValue:
		comp := e.state.Media.Component(c.MoleculeID)
		if comp == nil {
			return false
		}
		return compare(c.Operator, comp.Concentration.Value, c.Value)

	case schema.CondAssetValue:
		asset, ok := e.state.Assets[c.AssetID]
		if !ok {
			return false
		}
		var current float64
		switch c.Parameter {
		case "temperature":
			current = asset.Temperature
		case "ph":
			current = asset.PH
		default:
			return false
		}
		return compare(c.Operator, current, c.Value)
	}
	return false
}

func compare(op schema.ComparisonOperator, current, value float64) bool {
	switch op {
	case schema.OpLessThan:
		return current < value
	case schema.OpGreaterThan:
		return current > value
	case schema.OpEqualTo:
		return current == value
	case schema.OpNotEqualTo:
		return current != value
	}
	return false
}
