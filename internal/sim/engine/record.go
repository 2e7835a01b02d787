package engine

import (
	"encoding/json"
	"fmt"

	"bioforge.ai/internal/schema"
)

// TickRecord is the per-tick wire contract. Field names and semantics are
// stable: every downstream aggregation and plotting tool parses exactly this
// shape, whether it arrives as a CSV row, a JSONL line, an index-db row or a
// websocket frame.
type TickRecord struct {
	Tick                    uint64  `json:"tick"`
	StageID                 string  `json:"stage_id"`
	OrganismsJSON           string  `json:"organisms_json"`
	MediaVolumeL            float64 `json:"media_volume_l"`
	MediaPH                 float64 `json:"media_ph"`
	DissolvedComponentsJSON string  `json:"dissolved_components_json"`
	DissolvedGasesJSON      string  `json:"dissolved_gases_json"`
	AssetStatesJSON         string  `json:"asset_states_json"`
	EventsJSON              string  `json:"events_json"`
}

type assetStateJSON struct {
	Temperature float64 `json:"temperature"`
	PH          float64 `json:"ph"`
}

// buildRecord snapshots the current state under the given stage id. json
// sub-documents always serialize as arrays/objects, never null, and map keys
// sort lexically, so identical runs produce identical records.
func (e *Engine) buildRecord(stageID string) (TickRecord, error) {
	assetStates := make(map[string]assetStateJSON, len(e.state.Assets))
	for id, a := range e.state.Assets {
		assetStates[id] = assetStateJSON{Temperature: a.Temperature, PH: a.PH}
	}

	components := e.state.Media.Composition.DissolvedComponents
	if components == nil {
		components = []schema.DissolvedComponent{}
	}
	gases := e.state.Media.Composition.DissolvedGases
	if gases == nil {
		gases = []schema.DissolvedGas{}
	}
	events := e.state.Events
	if events == nil {
		events = []Event{}
	}

	organismsJSON, err := json.Marshal(e.state.Organisms)
	if err != nil {
		return TickRecord{}, fmt.Errorf("marshal organisms: %w", err)
	}
	componentsJSON, err := json.Marshal(components)
	if err != nil {
		return TickRecord{}, fmt.Errorf("marshal dissolved components: %w", err)
	}
	gasesJSON, err := json.Marshal(gases)
	if err != nil {
		return TickRecord{}, fmt.Errorf("marshal dissolved gases: %w", err)
	}
	assetsJSON, err := json.Marshal(assetStates)
	if err != nil {
		return TickRecord{}, fmt.Errorf("marshal asset states: %w", err)
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return TickRecord{}, fmt.Errorf("marshal events: %w", err)
	}

	return TickRecord{
		Tick:                    e.state.Tick,
		StageID:                 stageID,
		OrganismsJSON:           string(organismsJSON),
		MediaVolumeL:            e.state.Media.Volume.Value,
		MediaPH:                 e.state.Media.PH,
		DissolvedComponentsJSON: string(componentsJSON),
		DissolvedGasesJSON:      string(gasesJSON),
		AssetStatesJSON:         string(assetsJSON),
		EventsJSON:              string(eventsJSON),
	}, nil
}
