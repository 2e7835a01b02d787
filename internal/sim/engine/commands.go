package engine

import "bioforge.ai/internal/schema"

// executeCommand applies one queued command to state. Commands run after the
// tick's snapshot is logged, so their effects are first visible next tick.
// Unknown asset and material ids no-op; unknown kinds are ignored.
func (e *Engine) executeCommand(cmd schema.Command) {
	switch cmd.Type {
	case schema.CmdAdvanceToNextStep:
		e.stepIndex++
		e.state.TicksInCurrentStage = 0
		if id, ok := e.currentMethodID(); ok {
			e.logf("entering stage %s", id)
		} else {
			e.logf("reached end of process workflow")
		}

	case schema.CmdSetTemperature:
		if asset, ok := e.state.Assets[cmd.AssetID]; ok {
			asset.Temperature = cmd.Celsius
		}

	case schema.CmdAdjustPh:
		if asset, ok := e.state.Assets[cmd.AssetID]; ok {
			asset.PH = cmd.TargetPh
		}

	case schema.CmdAddMaterial:
		// Only components already in the composition accept additions; an
		// unknown material id drops silently with no event.
		if comp := e.state.Media.Component(cmd.MaterialID); comp != nil {
			comp.Concentration.Value += cmd.AmountGrams / e.state.Media.Volume.Value
			e.state.Events = append(e.state.Events, materialAdded(cmd.MaterialID, cmd.AmountGrams))
		}

	case schema.CmdSetOrganismGrowthMultiplier:
		e.growthMultipliers[cmd.OrganismID] = cmd.Multiplier
	}
}
