package engine

// Molar masses (g/mol) for the molecules the kinetics model converts between
// mmol-based exchange rates and grams. Identifiers are ChEBI ids.
var molarMasses = map[string]float64{
	"CHEBI:17234": 180.16, // glucose
	"CHEBI:17992": 342.3,  // sucrose
	"CHEBI:30089": 60.05,  // acetate
}

// Fallback masses for identifiers missing from the table. Consumption
// defaults to the sucrose mass, secretion to 1.0, matching the historical
// log output downstream tools calibrate against.
const (
	fallbackConsumptionMolarMass = 342.3
	fallbackSecretionMolarMass   = 1.0
)

func molarMass(moleculeID string, fallback float64) float64 {
	if mw, ok := molarMasses[moleculeID]; ok {
		return mw
	}
	return fallback
}
