package schema

// ComparisonOperator is the numeric comparison used by media_value and
// asset_value conditions.
type ComparisonOperator string

const (
	OpLessThan    ComparisonOperator = "less_than"
	OpGreaterThan ComparisonOperator = "greater_than"
	OpEqualTo     ComparisonOperator = "equal_to"
	OpNotEqualTo  ComparisonOperator = "not_equal_to"
)

// Condition kinds. The set is closed: evaluation dispatches on Type and an
// unknown kind evaluates to false.
const (
	CondTimeInStage       = "time_in_stage"
	CondBiomassStationary = "biomass_stationary"
	CondProductAmount     = "product_amount"
	CondMediaValue        = "media_value"
	CondAssetValue        = "asset_value"
)

// Condition is a tagged union: Type selects the kind, the remaining fields
// are populated per kind (the rest stay zero).
type Condition struct {
	Type string `yaml:"type" json:"type"`

	// time_in_stage
	Ticks uint64 `yaml:"ticks,omitempty" json:"ticks,omitempty"`

	// biomass_stationary
	Threshold float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Window    int     `yaml:"window,omitempty" json:"window,omitempty"`

	// product_amount
	MoleculeName string  `yaml:"molecule_name,omitempty" json:"molecule_name,omitempty"`
	TargetGrams  float64 `yaml:"target_grams,omitempty" json:"target_grams,omitempty"`

	// media_value
	MoleculeID string `yaml:"molecule_id,omitempty" json:"molecule_id,omitempty"`

	// asset_value
	AssetID   string `yaml:"asset_id,omitempty" json:"asset_id,omitempty"`
	Parameter string `yaml:"parameter,omitempty" json:"parameter,omitempty"`

	// media_value / asset_value
	Operator ComparisonOperator `yaml:"operator,omitempty" json:"operator,omitempty"`
	Value    float64            `yaml:"value,omitempty" json:"value,omitempty"`
}

// Command kinds.
const (
	CmdAdvanceToNextStep           = "advance_to_next_step"
	CmdSetTemperature              = "set_temperature"
	CmdAdjustPh                    = "adjust_ph"
	CmdAddMaterial                 = "add_material"
	CmdSetOrganismGrowthMultiplier = "set_organism_growth_multiplier"
)

// Command is a tagged union like Condition. Commands are queued by triggered
// rules and applied to state after the tick's snapshot is logged.
type Command struct {
	Type string `yaml:"type" json:"type"`

	// set_temperature / adjust_ph / add_material
	AssetID string `yaml:"asset_id,omitempty" json:"asset_id,omitempty"`

	// set_temperature
	Celsius float64 `yaml:"celsius,omitempty" json:"celsius,omitempty"`

	// adjust_ph
	TargetPh float64 `yaml:"target_ph,omitempty" json:"target_ph,omitempty"`

	// add_material
	MaterialID  string  `yaml:"material_id,omitempty" json:"material_id,omitempty"`
	AmountGrams float64 `yaml:"amount_grams,omitempty" json:"amount_grams,omitempty"`

	// set_organism_growth_multiplier
	OrganismID string  `yaml:"organism_id,omitempty" json:"organism_id,omitempty"`
	Multiplier float64 `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
}

// Rule pairs a condition with the command to queue when it holds.
type Rule struct {
	Name      string    `yaml:"name" json:"name"`
	Condition Condition `yaml:"condition" json:"condition"`
	Action    Command   `yaml:"action" json:"action"`
}
