package schema

// Organism is a complete organism definition from the knowledge base. Static
// properties never change during a run; dynamic parameters feed the kinetics
// model every tick.
type Organism struct {
	OrganismID       string            `yaml:"organism_id" json:"organism_id"`
	OrganismName     string            `yaml:"organism_name" json:"organism_name"`
	OrganismType     string            `yaml:"organism_type" json:"organism_type"`
	StrainDetails    *StrainDetails    `yaml:"strain_details,omitempty" json:"strain_details,omitempty"`
	InitialBiomass   Measurement       `yaml:"initial_biomass" json:"initial_biomass"`
	StaticProperties StaticProperties  `yaml:"static_properties" json:"static_properties"`
	DynamicParams    DynamicParameters `yaml:"dynamic_parameters" json:"dynamic_parameters"`
}

type StrainDetails struct {
	Description  string `yaml:"description,omitempty" json:"description,omitempty"`
	IsEngineered bool   `yaml:"is_engineered" json:"is_engineered"`
}

type ElementalComposition struct {
	Carbon     float64 `yaml:"carbon" json:"carbon"`
	Hydrogen   float64 `yaml:"hydrogen" json:"hydrogen"`
	Oxygen     float64 `yaml:"oxygen" json:"oxygen"`
	Nitrogen   float64 `yaml:"nitrogen" json:"nitrogen"`
	Phosphorus float64 `yaml:"phosphorus" json:"phosphorus"`
	Sulfur     float64 `yaml:"sulfur" json:"sulfur"`
}

type MacromolecularSummary struct {
	Protein      float64 `yaml:"protein" json:"protein"`
	Carbohydrate float64 `yaml:"carbohydrate" json:"carbohydrate"`
	Lipid        float64 `yaml:"lipid" json:"lipid"`
	NucleicAcid  float64 `yaml:"nucleic_acid" json:"nucleic_acid"`
	Ash          float64 `yaml:"ash" json:"ash"`
}

type Morphology struct {
	NominalDiameter Measurement `yaml:"nominal_diameter" json:"nominal_diameter"`
}

// TargetMoleculeYield is the yield of one target molecule in mg per gram of
// dry-weight biomass.
type TargetMoleculeYield struct {
	Molecule            string  `yaml:"molecule" json:"molecule"`
	ConcentrationMgGDW  float64 `yaml:"concentration_mg_g_dw" json:"concentration_mg_g_dw"`
}

type TargetedMolecularClasses struct {
	TerpenoidsAndCarotenoids []TargetMoleculeYield `yaml:"terpenoids_and_carotenoids" json:"terpenoids_and_carotenoids"`
	CellWallComponents       []TargetMoleculeYield `yaml:"cell_wall_components" json:"cell_wall_components"`
}

type StaticProperties struct {
	ElementalComposition     ElementalComposition     `yaml:"elemental_composition" json:"elemental_composition"`
	MacromolecularSummary    MacromolecularSummary    `yaml:"macromolecular_summary" json:"macromolecular_summary"`
	Morphology               Morphology               `yaml:"morphology" json:"morphology"`
	TargetedMolecularClasses TargetedMolecularClasses `yaml:"targeted_molecular_classes" json:"targeted_molecular_classes"`
}

type ToleranceRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

type TemperatureTolerance struct {
	Optimal Measurement    `yaml:"optimal" json:"optimal"`
	Range   ToleranceRange `yaml:"range" json:"range"`
}

type PHTolerance struct {
	Optimal float64        `yaml:"optimal" json:"optimal"`
	Range   ToleranceRange `yaml:"range" json:"range"`
}

type ChemicalTolerance struct {
	MoleculeID                     string       `yaml:"molecule_id" json:"molecule_id"`
	MoleculeName                   string       `yaml:"molecule_name" json:"molecule_name"`
	MinimumInhibitoryConcentration *Measurement `yaml:"minimum_inhibitory_concentration,omitempty" json:"minimum_inhibitory_concentration,omitempty"`
	InhibitoryConcentration50      *Measurement `yaml:"inhibitory_concentration_50,omitempty" json:"inhibitory_concentration_50,omitempty"`
}

type EnvironmentalTolerances struct {
	Temperature TemperatureTolerance `yaml:"temperature" json:"temperature"`
	PH          PHTolerance          `yaml:"ph" json:"ph"`
	Chemical    []ChemicalTolerance  `yaml:"chemical,omitempty" json:"chemical,omitempty"`
}

// MediaExchangeRate is the maximum rate (mmol/gDW/hr) at which an organism
// consumes or secretes one dissolved molecule. The first entry of a
// consumption list is the organism's primary carbon source.
type MediaExchangeRate struct {
	MoleculeID      string      `yaml:"molecule_id" json:"molecule_id"`
	MoleculeName    string      `yaml:"molecule_name" json:"molecule_name"`
	MaxExchangeRate Measurement `yaml:"max_exchange_rate" json:"max_exchange_rate"`
}

type GasExchangeRate struct {
	GasID           string      `yaml:"gas_id" json:"gas_id"`
	GasName         string      `yaml:"gas_name" json:"gas_name"`
	MaxExchangeRate Measurement `yaml:"max_exchange_rate" json:"max_exchange_rate"`
}

type MetabolicExchange struct {
	MediaConsumption []MediaExchangeRate `yaml:"media_consumption" json:"media_consumption"`
	MediaSecretion   []MediaExchangeRate `yaml:"media_secretion" json:"media_secretion"`
	GasConsumption   []GasExchangeRate   `yaml:"gas_consumption,omitempty" json:"gas_consumption,omitempty"`
	GasSecretion     []GasExchangeRate   `yaml:"gas_secretion,omitempty" json:"gas_secretion,omitempty"`
}

type DynamicParameters struct {
	GrowthRatePerHr         float64                 `yaml:"growth_rate_per_hr" json:"growth_rate_per_hr"`
	EnvironmentalTolerances EnvironmentalTolerances `yaml:"environmental_tolerances" json:"environmental_tolerances"`
	MetabolicExchange       MetabolicExchange       `yaml:"metabolic_exchange" json:"metabolic_exchange"`
}

// YieldFor returns the mg/gDW yield of the named target molecule, searching
// terpenoids and carotenoids before cell wall components.
func (o *Organism) YieldFor(molecule string) (float64, bool) {
	for _, y := range o.StaticProperties.TargetedMolecularClasses.TerpenoidsAndCarotenoids {
		if y.Molecule == molecule {
			return y.ConcentrationMgGDW, true
		}
	}
	for _, y := range o.StaticProperties.TargetedMolecularClasses.CellWallComponents {
		if y.Molecule == molecule {
			return y.ConcentrationMgGDW, true
		}
	}
	return 0, false
}
