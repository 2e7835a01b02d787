package schema

type RequiredMaterial struct {
	Type string `yaml:"type" json:"type"`
	ID   string `yaml:"id" json:"id"`
}

type QcCheck struct {
	MethodID string `yaml:"method_id" json:"method_id"`
	Timing   string `yaml:"timing" json:"timing"`
}

// Method is one named step of a process workflow, bound to a required asset
// and a technique. Rules listed in RequiredRuleIDs are the only rules
// evaluated while the method is active, in this order.
type Method struct {
	MethodID            string             `yaml:"method_id" json:"method_id"`
	Stage               string             `yaml:"stage" json:"stage"`
	Technique           string             `yaml:"technique" json:"technique"`
	RequiredAssetID     string             `yaml:"required_asset_id" json:"required_asset_id"`
	OperatingParameters map[string]any     `yaml:"operating_parameters,omitempty" json:"operating_parameters,omitempty"`
	RequiredMaterials   []RequiredMaterial `yaml:"required_materials,omitempty" json:"required_materials,omitempty"`
	QcChecks            []QcCheck          `yaml:"qc_checks,omitempty" json:"qc_checks,omitempty"`
	RequiredRuleIDs     []string           `yaml:"required_rule_ids,omitempty" json:"required_rule_ids,omitempty"`
}

type Process struct {
	ProcessID       string   `yaml:"process_id" json:"process_id"`
	ProcessName     string   `yaml:"process_name" json:"process_name"`
	ComponentClass  string   `yaml:"component_class,omitempty" json:"component_class,omitempty"`
	Status          string   `yaml:"status,omitempty" json:"status,omitempty"`
	Notes           string   `yaml:"notes,omitempty" json:"notes,omitempty"`
	DefaultWorkflow []string `yaml:"default_workflow" json:"default_workflow"`
	Methods         []Method `yaml:"methods" json:"methods"`
}

// MethodByID returns the method definition with the given id, or nil.
func (p *Process) MethodByID(id string) *Method {
	for i := range p.Methods {
		if p.Methods[i].MethodID == id {
			return &p.Methods[i]
		}
	}
	return nil
}
