package engine

import (
	"math"
	"sort"

	"bioforge.ai/internal/schema"
)

const (
	timeStepHr = 1.0

	// Monod half-saturation constant for the primary carbon source, g/L.
	monodKs = 0.5

	// Stress floor applied outside an organism's temperature tolerance and
	// at the tolerance boundaries.
	stressFloor = 0.1
)

// biologicalTick runs the kinetics model for every organism over one
// simulated hour. Organisms read shared media concentrations but never see
// each other's writes within the pass: consumption and secretion accumulate
// into per-molecule deltas applied once at the end, so the outcome is
// independent of organism order.
func (e *Engine) biologicalTick(method *schema.Method) error {
	mediaDeltas := make(map[string]float64)
	var newByproducts []schema.DissolvedComponent
	totalBiomass := 0.0

	for _, orgID := range e.orgOrder {
		orgState := e.state.Organisms[orgID]
		orgDef, ok := e.organismDefs[orgID]
		if !ok {
			return &NotFoundError{Kind: "organism", ID: orgID}
		}
		dyn := &orgDef.DynamicParams

		stress := e.temperatureStress(dyn, method.RequiredAssetID)
		limitation := e.nutrientLimitation(dyn)
		multiplier := e.GrowthMultiplier(orgID)

		rate := dyn.GrowthRatePerHr * stress * limitation * multiplier
		orgState.Biomass.Value += orgState.Biomass.Value * (math.Exp(rate*timeStepHr) - 1.0)
		if orgState.Biomass.Value < 0 {
			orgState.Biomass.Value = 0
		}
		totalBiomass += orgState.Biomass.Value

		e.consumeNutrients(dyn, orgState, multiplier, mediaDeltas)
		newByproducts = e.secreteByproducts(dyn, orgState, stress, mediaDeltas, newByproducts)
	}

	e.history.Push(totalBiomass)

	// Byproducts first seen this tick enter the composition at zero, then the
	// deltas apply. Insertion checks both the composition and the pending
	// list, so a molecule is never duplicated.
	e.state.Media.Composition.DissolvedComponents = append(
		e.state.Media.Composition.DissolvedComponents, newByproducts...)

	ids := make([]string, 0, len(mediaDeltas))
	for id := range mediaDeltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if c := e.state.Media.Component(id); c != nil {
			c.Concentration.Value = math.Max(c.Concentration.Value+mediaDeltas[id], 0)
		}
	}

	return nil
}

// temperatureStress maps the required asset's temperature onto [0.1, 1.0]
// against the organism's tolerance: linear ramp up to the optimum, linear
// ramp down to the max, floor outside the viable range. A missing asset
// behaves as if the organism sat at its optimum.
func (e *Engine) temperatureStress(dyn *schema.DynamicParameters, assetID string) float64 {
	tol := &dyn.EnvironmentalTolerances.Temperature
	temp := tol.Optimal.Value
	if a, ok := e.state.Assets[assetID]; ok {
		temp = a.Temperature
	}

	switch {
	case temp < tol.Range.Min || temp > tol.Range.Max:
		return stressFloor
	case temp <= tol.Optimal.Value:
		return stressFloor + (1.0-stressFloor)*(temp-tol.Range.Min)/(tol.Optimal.Value-tol.Range.Min)
	default:
		return 1.0 - (1.0-stressFloor)*(temp-tol.Optimal.Value)/(tol.Range.Max-tol.Optimal.Value)
	}
}

// nutrientLimitation is the Monod saturation term for the organism's primary
// carbon source, the first-listed media consumption entry. Zero when the
// molecule is absent from the pool.
func (e *Engine) nutrientLimitation(dyn *schema.DynamicParameters) float64 {
	cons := dyn.MetabolicExchange.MediaConsumption
	if len(cons) == 0 {
		return 0
	}
	conc := 0.0
	if c := e.state.Media.ComponentByName(cons[0].MoleculeName); c != nil {
		conc = c.Concentration.Value
	}
	return conc / (monodKs + conc)
}

// consumeNutrients converts each consumption entry's exchange rate to grams,
// caps at what the pool holds, records the consumption event, and accumulates
// a negative concentration delta.
func (e *Engine) consumeNutrients(dyn *schema.DynamicParameters, orgState *OrganismState, multiplier float64, deltas map[string]float64) {
	volume := e.state.Media.Volume.Value
	for _, cons := range dyn.MetabolicExchange.MediaConsumption {
		nutrient := e.state.Media.Component(cons.MoleculeID)
		if nutrient == nil || nutrient.Concentration.Value <= 0 {
			continue
		}

		mw := molarMass(cons.MoleculeID, fallbackConsumptionMolarMass)
		rateGPerGDWHr := cons.MaxExchangeRate.Value * mw / 1000.0 * multiplier
		maxG := rateGPerGDWHr * orgState.Biomass.Value * timeStepHr
		availableG := nutrient.Concentration.Value * volume
		actualG := math.Min(maxG, availableG)
		if actualG <= 0 {
			continue
		}

		deltas[cons.MoleculeID] -= actualG / volume
		e.state.Events = append(e.state.Events, materialConsumed(cons.MoleculeID, actualG))
	}
}

// secreteByproducts accumulates positive deltas for each secretion entry,
// scaled by the stress factor. Molecules not yet in the composition are
// queued for zero-concentration insertion.
func (e *Engine) secreteByproducts(dyn *schema.DynamicParameters, orgState *OrganismState, stress float64, deltas map[string]float64, pending []schema.DissolvedComponent) []schema.DissolvedComponent {
	volume := e.state.Media.Volume.Value
	for _, sec := range dyn.MetabolicExchange.MediaSecretion {
		mw := molarMass(sec.MoleculeID, fallbackSecretionMolarMass)
		rateGPerGDWHr := sec.MaxExchangeRate.Value * mw / 1000.0
		secretedG := rateGPerGDWHr * orgState.Biomass.Value * timeStepHr * stress
		if secretedG <= 0 {
			continue
		}

		deltas[sec.MoleculeID] += secretedG / volume

		if e.state.Media.Component(sec.MoleculeID) == nil && !containsMolecule(pending, sec.MoleculeID) {
			pending = append(pending, schema.DissolvedComponent{
				MoleculeID:    sec.MoleculeID,
				MoleculeName:  sec.MoleculeName,
				Concentration: schema.Measurement{Value: 0, Unit: "g/L"},
			})
		}
	}
	return pending
}

func containsMolecule(components []schema.DissolvedComponent, moleculeID string) bool {
	for i := range components {
		if components[i].MoleculeID == moleculeID {
			return true
		}
	}
	return false
}
