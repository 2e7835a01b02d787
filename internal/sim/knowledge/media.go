package knowledge

import "bioforge.ai/internal/schema"

// Default formulation constants for a generated starting media.
const (
	defaultNutrientConcGPerL = 20.0
	ammoniaConcGPerL         = 2.0
	dissolvedOxygenGPerL     = 0.008
)

// DefaultMedia formulates a starting media for a consortium: a nitrogen base,
// every nutrient any organism consumes at a default concentration, and
// dissolved oxygen. Organism order does not matter; the composition lists the
// ammonia base first and then nutrients in first-seen order.
func DefaultMedia(organisms []schema.Organism, volumeL float64) schema.MediaState {
	components := []schema.DissolvedComponent{
		{
			MoleculeID:    "CHEBI:132204",
			MoleculeName:  "ammonia",
			Concentration: schema.Measurement{Value: ammoniaConcGPerL, Unit: "g/L"},
		},
	}
	seen := map[string]bool{"CHEBI:132204": true}
	for _, org := range organisms {
		for _, cons := range org.DynamicParams.MetabolicExchange.MediaConsumption {
			if seen[cons.MoleculeID] {
				continue
			}
			seen[cons.MoleculeID] = true
			components = append(components, schema.DissolvedComponent{
				MoleculeID:    cons.MoleculeID,
				MoleculeName:  cons.MoleculeName,
				Concentration: schema.Measurement{Value: defaultNutrientConcGPerL, Unit: "g/L"},
			})
		}
	}

	return schema.MediaState{
		Volume: schema.Measurement{Value: volumeL, Unit: "L"},
		PH:     7.0,
		Composition: schema.MediaComposition{
			DissolvedComponents: components,
			DissolvedGases: []schema.DissolvedGas{
				{
					GasID:         "CHEBI:15379",
					GasName:       "oxygen",
					Concentration: schema.Measurement{Value: dissolvedOxygenGPerL, Unit: "g/L"},
				},
			},
		},
	}
}
