package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bioforge.ai/internal/schema"
)

const organismDoc = `schema_version: "1.0"
organisms:
  - organism_id: ORG-HP-01
    organism_name: Haematococcus pluvialis
    organism_type: Microalgae
    initial_biomass:
      value: 0.1
      unit: g
    dynamic_parameters:
      growth_rate_per_hr: 0.05
      environmental_tolerances:
        temperature:
          optimal:
            value: 25
            unit: C
          range:
            min: 15
            max: 30
      metabolic_exchange:
        media_consumption:
          - molecule_id: CHEBI:17234
            molecule_name: glucose
            max_exchange_rate:
              value: 1.5
              unit: mmol/gDW/hr
        media_secretion: []
`

const ruleDoc = `schema_version: "1.0"
rules:
  - name: advance_after_growth
    condition:
      type: biomass_stationary
      threshold: 0.01
      window: 5
    action:
      type: advance_to_next_step
  - name: hold_temperature
    condition:
      type: asset_value
      asset_id: BIOREACTOR-01
      parameter: temperature
      operator: greater_than
      value: 30
    action:
      type: set_temperature
      asset_id: BIOREACTOR-01
      celsius: 25
`

const processDoc = `schema_version: "1.0"
processes:
  - process_id: PROC-ASTA-01
    process_name: astaxanthin production
    default_workflow: [MTHD-CULT-01, MTHD-SAP-01]
    methods:
      - method_id: MTHD-CULT-01
        stage: Cultivation
        technique: fed-batch
        required_asset_id: BIOREACTOR-01
        required_rule_ids: [advance_after_growth]
      - method_id: MTHD-SAP-01
        stage: Extraction
        technique: saponification
        required_asset_id: TANK-01
`

const assetDoc = `schema_version: "1.0"
assets:
  - asset_id: BIOREACTOR-01
    display_name: 500L stirred tank
    asset_type: BIOREACTOR
  - asset_id: TANK-01
    asset_type: TANK
`

func writeKind(t *testing.T, dir, kind, name, doc string) {
	t.Helper()
	sub := filepath.Join(dir, kind)
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", sub, err)
	}
	if err := os.WriteFile(filepath.Join(sub, name), []byte(doc), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad_FullBase(t *testing.T) {
	dir := t.TempDir()
	writeKind(t, dir, "organisms", "algae.yaml", organismDoc)
	writeKind(t, dir, "rules", "cultivation.yaml", ruleDoc)
	writeKind(t, dir, "processes", "astaxanthin.yaml", processDoc)
	writeKind(t, dir, "assets", "plant.yaml", assetDoc)

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	org, ok := b.Organisms["ORG-HP-01"]
	if !ok {
		t.Fatal("organism not loaded")
	}
	if org.DynamicParams.GrowthRatePerHr != 0.05 {
		t.Fatalf("growth rate = %v", org.DynamicParams.GrowthRatePerHr)
	}
	if got := org.DynamicParams.MetabolicExchange.MediaConsumption[0].MoleculeID; got != "CHEBI:17234" {
		t.Fatalf("consumption molecule = %q", got)
	}

	r, ok := b.Rules["hold_temperature"]
	if !ok {
		t.Fatal("rule not loaded")
	}
	if r.Condition.Type != schema.CondAssetValue || r.Condition.Operator != schema.OpGreaterThan {
		t.Fatalf("condition decoded wrong: %+v", r.Condition)
	}
	if r.Action.Type != schema.CmdSetTemperature || r.Action.Celsius != 25 {
		t.Fatalf("action decoded wrong: %+v", r.Action)
	}

	p, ok := b.Processes["PROC-ASTA-01"]
	if !ok {
		t.Fatal("process not loaded")
	}
	if len(p.DefaultWorkflow) != 2 || p.DefaultWorkflow[1] != "MTHD-SAP-01" {
		t.Fatalf("workflow decoded wrong: %v", p.DefaultWorkflow)
	}
	m := p.MethodByID("MTHD-CULT-01")
	if m == nil || m.RequiredRuleIDs[0] != "advance_after_growth" {
		t.Fatalf("method lookup failed: %+v", m)
	}

	if len(b.Assets) != 2 {
		t.Fatalf("assets loaded: %d", len(b.Assets))
	}
	if len(b.Materials) != 0 {
		t.Fatal("missing materials dir must load empty")
	}
}

func TestLoad_MissingDirIsEmptyBase(t *testing.T) {
	b, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(b.Organisms)+len(b.Rules)+len(b.Processes)+len(b.Assets)+len(b.Materials) != 0 {
		t.Fatal("empty root must load an empty base")
	}
}

func TestLoad_SchemaViolationNamesFile(t *testing.T) {
	dir := t.TempDir()
	// window above the history capacity.
	bad := `schema_version: "1.0"
rules:
  - name: bad_window
    condition:
      type: biomass_stationary
      threshold: 0.01
      window: 25
    action:
      type: advance_to_next_step
`
	writeKind(t, dir, "rules", "bad.yaml", bad)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %T, want ConfigError", err)
	}
	if !strings.HasSuffix(ce.Path, filepath.Join("rules", "bad.yaml")) {
		t.Fatalf("error names wrong file: %s", ce.Path)
	}
}

func TestLoad_RejectsUnknownConditionKind(t *testing.T) {
	dir := t.TempDir()
	bad := `schema_version: "1.0"
rules:
  - name: moon_phase
    condition:
      type: phase_of_the_moon
    action:
      type: advance_to_next_step
`
	writeKind(t, dir, "rules", "moon.yaml", bad)

	if _, err := Load(dir); err == nil {
		t.Fatal("unknown condition kind must fail validation")
	}
}

func TestLoad_DuplicateIDAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeKind(t, dir, "assets", "a.yaml", assetDoc)
	writeKind(t, dir, "assets", "b.yaml", assetDoc)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("duplicate asset id must fail")
	}
	if !strings.Contains(err.Error(), "duplicate asset id") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDefaultMedia(t *testing.T) {
	shared := schema.MediaExchangeRate{
		MoleculeID:      "CHEBI:17234",
		MoleculeName:    "glucose",
		MaxExchangeRate: schema.Measurement{Value: 1, Unit: "mmol/gDW/hr"},
	}
	orgs := []schema.Organism{
		{
			OrganismID: "ORG-A",
			DynamicParams: schema.DynamicParameters{
				MetabolicExchange: schema.MetabolicExchange{
					MediaConsumption: []schema.MediaExchangeRate{shared},
				},
			},
		},
		{
			OrganismID: "ORG-B",
			DynamicParams: schema.DynamicParameters{
				MetabolicExchange: schema.MetabolicExchange{
					MediaConsumption: []schema.MediaExchangeRate{shared, {
						MoleculeID:      "CHEBI:17992",
						MoleculeName:    "sucrose",
						MaxExchangeRate: schema.Measurement{Value: 1, Unit: "mmol/gDW/hr"},
					}},
				},
			},
		},
	}

	media := DefaultMedia(orgs, 500)
	if media.Volume.Value != 500 || media.PH != 7.0 {
		t.Fatalf("media envelope: %+v", media)
	}

	comps := media.Composition.DissolvedComponents
	if len(comps) != 3 {
		t.Fatalf("expected ammonia + 2 deduped nutrients, got %d", len(comps))
	}
	if comps[0].MoleculeID != "CHEBI:132204" || comps[0].Concentration.Value != ammoniaConcGPerL {
		t.Fatalf("ammonia base must come first: %+v", comps[0])
	}
	if comps[1].MoleculeID != "CHEBI:17234" || comps[1].Concentration.Value != defaultNutrientConcGPerL {
		t.Fatalf("first-seen nutrient order broken: %+v", comps[1])
	}
	if comps[2].MoleculeID != "CHEBI:17992" {
		t.Fatalf("second nutrient: %+v", comps[2])
	}

	gases := media.Composition.DissolvedGases
	if len(gases) != 1 || gases[0].GasID != "CHEBI:15379" {
		t.Fatalf("dissolved oxygen missing: %+v", gases)
	}
}
