package schema

// File wrappers for knowledge-base YAML documents. Every document carries a
// schema_version and a single plural key for its kind.

type AssetFile struct {
	SchemaVersion string  `yaml:"schema_version" json:"schema_version"`
	Assets        []Asset `yaml:"assets" json:"assets"`
}

type MaterialFile struct {
	SchemaVersion string     `yaml:"schema_version" json:"schema_version"`
	Materials     []Material `yaml:"materials" json:"materials"`
}

type OrganismFile struct {
	SchemaVersion string     `yaml:"schema_version" json:"schema_version"`
	Organisms     []Organism `yaml:"organisms" json:"organisms"`
}

type ProcessFile struct {
	SchemaVersion string    `yaml:"schema_version" json:"schema_version"`
	Processes     []Process `yaml:"processes" json:"processes"`
}

type RuleFile struct {
	SchemaVersion string `yaml:"schema_version" json:"schema_version"`
	Rules         []Rule `yaml:"rules" json:"rules"`
}
