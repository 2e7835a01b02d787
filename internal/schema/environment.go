package schema

// Measurement is a value with its unit, e.g. {value: 20.0, unit: "g/L"}.
// The unit is carried verbatim into the run log.
type Measurement struct {
	Value float64 `yaml:"value" json:"value"`
	Unit  string  `yaml:"unit" json:"unit"`
}

type DissolvedComponent struct {
	MoleculeID    string      `yaml:"molecule_id" json:"molecule_id"`
	MoleculeName  string      `yaml:"molecule_name" json:"molecule_name"`
	Concentration Measurement `yaml:"concentration" json:"concentration"`
}

type DissolvedGas struct {
	GasID         string      `yaml:"gas_id" json:"gas_id"`
	GasName       string      `yaml:"gas_name" json:"gas_name"`
	Concentration Measurement `yaml:"concentration" json:"concentration"`
}

type MediaComposition struct {
	DissolvedComponents []DissolvedComponent `yaml:"dissolved_components" json:"dissolved_components"`
	DissolvedGases      []DissolvedGas       `yaml:"dissolved_gases" json:"dissolved_gases"`
}

// MediaState is the shared pool all organisms consume from and secrete into.
type MediaState struct {
	Volume      Measurement      `yaml:"volume" json:"volume"`
	PH          float64          `yaml:"ph" json:"ph"`
	Composition MediaComposition `yaml:"composition" json:"composition"`
}

// Component returns the dissolved component with the given molecule id, or nil.
func (m *MediaState) Component(moleculeID string) *DissolvedComponent {
	for i := range m.Composition.DissolvedComponents {
		if m.Composition.DissolvedComponents[i].MoleculeID == moleculeID {
			return &m.Composition.DissolvedComponents[i]
		}
	}
	return nil
}

// ComponentByName returns the dissolved component with the given molecule
// name, or nil. Consumption entries name their primary carbon source this way.
func (m *MediaState) ComponentByName(moleculeName string) *DissolvedComponent {
	for i := range m.Composition.DissolvedComponents {
		if m.Composition.DissolvedComponents[i].MoleculeName == moleculeName {
			return &m.Composition.DissolvedComponents[i]
		}
	}
	return nil
}
