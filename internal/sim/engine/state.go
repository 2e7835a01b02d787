package engine

import "bioforge.ai/internal/schema"

// Event kinds as they appear in the events_json log field.
const (
	EventMaterialConsumed = "material_consumed"
	EventMaterialAdded    = "material_added"
)

// Event is a single this-tick occurrence. The list is cleared at the start of
// every tick, so a logged record only ever holds the tick's own events.
type Event struct {
	Type   string  `json:"type"`
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

func materialConsumed(id string, amount float64) Event {
	return Event{Type: EventMaterialConsumed, ID: id, Amount: amount}
}

func materialAdded(id string, amount float64) Event {
	return Event{Type: EventMaterialAdded, ID: id, Amount: amount}
}

// LiveAsset is the mutable run-time state of one asset. The definition is
// immutable reference data; temperature and pH are the only fields commands
// may overwrite.
type LiveAsset struct {
	Definition  schema.Asset
	Temperature float64
	PH          float64
}

// OrganismState is the mutable per-organism state: biomass only. Growth
// multipliers live on the engine, keyed by the same organism ids.
type OrganismState struct {
	Biomass schema.Measurement `json:"biomass"`
}

// State is the single mutable aggregate for a run. It is owned exclusively by
// the engine instance; all mutation happens inside Tick.
type State struct {
	Tick                uint64
	TicksInCurrentStage uint64
	Assets              map[string]*LiveAsset
	Media               schema.MediaState
	Organisms           map[string]*OrganismState
	Events              []Event
}
