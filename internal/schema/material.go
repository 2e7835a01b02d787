package schema

type Material struct {
	MaterialID       string `yaml:"material_id" json:"material_id"`
	MaterialName     string `yaml:"material_name" json:"material_name"`
	MaterialClass    string `yaml:"material_class" json:"material_class"`
	MaterialCategory string `yaml:"material_category" json:"material_category"`
	Unit             string `yaml:"unit" json:"unit"`
}
