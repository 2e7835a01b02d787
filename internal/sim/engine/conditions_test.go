package engine

import (
	"testing"

	"bioforge.ai/internal/schema"
)

func conditionEngine(t *testing.T) *Engine {
	t.Helper()
	org := testOrganism(testOrgID, 0.1, 50.0, 0)
	org.StaticProperties.TargetedMolecularClasses = schema.TargetedMolecularClasses{
		TerpenoidsAndCarotenoids: []schema.TargetMoleculeYield{
			{Molecule: "astaxanthin", ConcentrationMgGDW: 100},
		},
	}
	return mustBuild(t, NewBuilder().
		WithOrganisms([]schema.Organism{org}).
		WithAssets([]schema.Asset{{AssetID: testAsset, AssetType: "BIOREACTOR"}}).
		WithProcess(testProcess(nil)).
		WithInitialMedia(testMedia(2.5)))
}

func TestEvaluateCondition_TimeInStageBoundary(t *testing.T) {
	e := conditionEngine(t)
	cond := &schema.Condition{Type: schema.CondTimeInStage, Ticks: 5}

	e.state.TicksInCurrentStage = 4
	if e.evaluateCondition(cond) {
		t.Fatal("fired one tick early")
	}
	e.state.TicksInCurrentStage = 5
	if !e.evaluateCondition(cond) {
		t.Fatal("did not fire at the boundary")
	}
	e.state.TicksInCurrentStage = 6
	if !e.evaluateCondition(cond) {
		t.Fatal("did not stay true past the boundary")
	}
}

func TestEvaluateCondition_BiomassStationaryNeedsFullWindow(t *testing.T) {
	e := conditionEngine(t)
	cond := &schema.Condition{Type: schema.CondBiomassStationary, Threshold: 0.01, Window: 5}

	for i := 0; i < 4; i++ {
		e.history.Push(10.0)
	}
	if e.evaluateCondition(cond) {
		t.Fatal("fired with fewer samples than the window")
	}
	e.history.Push(10.0)
	if !e.evaluateCondition(cond) {
		t.Fatal("flat biomass over a full window must read as stationary")
	}
}

func TestEvaluateCondition_BiomassStationaryGrowthNotStationary(t *testing.T) {
	e := conditionEngine(t)
	cond := &schema.Condition{Type: schema.CondBiomassStationary, Threshold: 0.01, Window: 5}

	v := 10.0
	for i := 0; i < 5; i++ {
		e.history.Push(v)
		v *= 1.2
	}
	if e.evaluateCondition(cond) {
		t.Fatal("20%/tick growth must not read as stationary")
	}
}

func TestEvaluateCondition_BiomassStationaryZeroPastSample(t *testing.T) {
	e := conditionEngine(t)
	cond := &schema.Condition{Type: schema.CondBiomassStationary, Threshold: 0.01, Window: 3}

	e.history.Push(0)
	e.history.Push(1)
	e.history.Push(2)
	if e.evaluateCondition(cond) {
		t.Fatal("zero past sample must evaluate to false, not divide")
	}
}

func TestEvaluateCondition_ProductAmountBoundary(t *testing.T) {
	// 50 g biomass at 100 mg/gDW is exactly 5.0 g of product.
	e := conditionEngine(t)

	cond := &schema.Condition{Type: schema.CondProductAmount, MoleculeName: "astaxanthin", TargetGrams: 5.0}
	if !e.evaluateCondition(cond) {
		t.Fatal("exact target must satisfy the condition")
	}
	cond.TargetGrams = 5.0000001
	if e.evaluateCondition(cond) {
		t.Fatal("target above production must not fire")
	}
	cond = &schema.Condition{Type: schema.CondProductAmount, MoleculeName: "no_such_molecule", TargetGrams: 0.001}
	if e.evaluateCondition(cond) {
		t.Fatal("unknown molecule must evaluate to false")
	}
}

func TestEvaluateCondition_MediaValue(t *testing.T) {
	e := conditionEngine(t)

	cases := []struct {
		op   schema.ComparisonOperator
		val  float64
		want bool
	}{
		{schema.OpLessThan, 3.0, true},
		{schema.OpLessThan, 2.5, false},
		{schema.OpGreaterThan, 2.0, true},
		{schema.OpEqualTo, 2.5, true},
		{schema.OpEqualTo, 2.5000001, false},
		{schema.OpNotEqualTo, 2.5, false},
		{schema.OpNotEqualTo, 9.0, true},
	}
	for _, tc := range cases {
		cond := &schema.Condition{
			Type:       schema.CondMediaValue,
			MoleculeID: glucoseID,
			Operator:   tc.op,
			Value:      tc.val,
		}
		if got := e.evaluateCondition(cond); got != tc.want {
			t.Fatalf("%s %v: got %v want %v", tc.op, tc.val, got, tc.want)
		}
	}

	absent := &schema.Condition{Type: schema.CondMediaValue, MoleculeID: "CHEBI:00000", Operator: schema.OpLessThan, Value: 1e9}
	if e.evaluateCondition(absent) {
		t.Fatal("absent molecule must evaluate to false")
	}
}

func TestEvaluateCondition_AssetValue(t *testing.T) {
	e := conditionEngine(t)
	e.state.Assets[testAsset].Temperature = 30

	cond := &schema.Condition{Type: schema.CondAssetValue, AssetID: testAsset, Parameter: "temperature", Operator: schema.OpEqualTo, Value: 30}
	if !e.evaluateCondition(cond) {
		t.Fatal("temperature match must fire")
	}
	cond.Parameter = "ph"
	cond.Value = 7.0
	if !e.evaluateCondition(cond) {
		t.Fatal("default asset pH is 7.0")
	}
	cond.Parameter = "agitation"
	if e.evaluateCondition(cond) {
		t.Fatal("unknown parameter must evaluate to false")
	}
	cond.Parameter = "ph"
	cond.AssetID = "NO-SUCH-ASSET"
	if e.evaluateCondition(cond) {
		t.Fatal("unknown asset must evaluate to false")
	}
}

func TestEvaluateCondition_UnknownKindIsFalse(t *testing.T) {
	e := conditionEngine(t)
	if e.evaluateCondition(&schema.Condition{Type: "phase_of_the_moon"}) {
		t.Fatal("unknown condition kind must evaluate to false")
	}
}
