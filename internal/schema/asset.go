package schema

// Asset is the digital twin of a piece of process equipment: bioreactors,
// downstream skids, finishing equipment.
type Asset struct {
	AssetID     string      `yaml:"asset_id" json:"asset_id"`
	DisplayName string      `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	AssetType   string      `yaml:"asset_type" json:"asset_type"`
	Group       string      `yaml:"group,omitempty" json:"group,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	PowerModel  *PowerModel `yaml:"power_model,omitempty" json:"power_model,omitempty"`
}

type PowerModel struct {
	Description    string      `yaml:"description,omitempty" json:"description,omitempty"`
	OperatingPower Measurement `yaml:"operating_power" json:"operating_power"`
	StandbyPower   Measurement `yaml:"standby_power" json:"standby_power"`
}
