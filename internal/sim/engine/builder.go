package engine

import (
	"log"
	"sort"

	"bioforge.ai/internal/schema"
)

// Default environment for assets at build time.
const (
	defaultAssetTemperature = 25.0
	defaultAssetPH          = 7.0
)

// Builder assembles a SimulationEngine. Organisms, media and a process are
// required; assets, rules, sink and logger are optional.
type Builder struct {
	assets    []schema.Asset
	rules     []schema.Rule
	process   *schema.Process
	organisms []schema.Organism
	media     *schema.MediaState
	sink      TickSink
	logger    *log.Logger
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) WithAssets(assets []schema.Asset) *Builder {
	b.assets = assets
	return b
}

func (b *Builder) WithRules(rules []schema.Rule) *Builder {
	b.rules = rules
	return b
}

func (b *Builder) WithProcess(p schema.Process) *Builder {
	b.process = &p
	return b
}

func (b *Builder) WithOrganisms(organisms []schema.Organism) *Builder {
	b.organisms = organisms
	return b
}

func (b *Builder) WithInitialMedia(media schema.MediaState) *Builder {
	b.media = &media
	return b
}

// WithTickSink sets the per-tick log destination. The engine writes one
// record per tick plus the INITIAL pre-run snapshot; a write failure aborts
// the run.
func (b *Builder) WithTickSink(sink TickSink) *Builder {
	b.sink = sink
	return b
}

// WithLogger sets an optional logger for stage-transition messages.
func (b *Builder) WithLogger(logger *log.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and returns a ready engine.
//
// Structural errors are fatal here: no organisms, missing media or process,
// or a default_workflow entry with no matching method definition.
func (b *Builder) Build() (*Engine, error) {
	if len(b.organisms) == 0 {
		return nil, ErrNoOrganismProvided
	}
	if b.media == nil {
		return nil, ErrMediaNotDefined
	}
	if b.process == nil {
		return nil, ErrProcessNotDefined
	}

	methods := make(map[string]*schema.Method, len(b.process.Methods))
	for i := range b.process.Methods {
		methods[b.process.Methods[i].MethodID] = &b.process.Methods[i]
	}
	for _, id := range b.process.DefaultWorkflow {
		if _, ok := methods[id]; !ok {
			return nil, &NotFoundError{Kind: "method", ID: id}
		}
	}

	assets := make(map[string]*LiveAsset, len(b.assets))
	for _, def := range b.assets {
		assets[def.AssetID] = &LiveAsset{
			Definition:  def,
			Temperature: defaultAssetTemperature,
			PH:          defaultAssetPH,
		}
	}

	rules := make(map[string]schema.Rule, len(b.rules))
	for _, r := range b.rules {
		rules[r.Name] = r
	}

	organismDefs := make(map[string]schema.Organism, len(b.organisms))
	organismStates := make(map[string]*OrganismState, len(b.organisms))
	growthMultipliers := make(map[string]float64, len(b.organisms))
	orgOrder := make([]string, 0, len(b.organisms))
	for _, org := range b.organisms {
		organismDefs[org.OrganismID] = org
		organismStates[org.OrganismID] = &OrganismState{Biomass: org.InitialBiomass}
		growthMultipliers[org.OrganismID] = 1.0
		orgOrder = append(orgOrder, org.OrganismID)
	}
	// Fixed processing order for the whole run: identical configuration must
	// produce byte-identical log streams.
	sort.Strings(orgOrder)

	e := &Engine{
		state: State{
			Assets:    assets,
			Media:     *b.media,
			Organisms: organismStates,
			Events:    []Event{},
		},
		process:           *b.process,
		methods:           methods,
		rules:             rules,
		organismDefs:      organismDefs,
		orgOrder:          orgOrder,
		growthMultipliers: growthMultipliers,
		unitOps:           defaultUnitOps(),
		sink:              b.sink,
		logger:            b.logger,
	}
	return e, nil
}
