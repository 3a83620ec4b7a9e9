package archgraph

// Layer is the structural classification attached to a compilation unit
// or import target by path convention.
type Layer string

const (
	LayerPureLogic      Layer = "pure-logic"
	LayerPort           Layer = "port"
	LayerOrchestration  Layer = "orchestration"
	LayerAdapter        Layer = "adapter"
	LayerInfrastructure Layer = "infrastructure"
	LayerContract       Layer = "contract"
	LayerUnknown        Layer = "unknown"
)

// layerRanks defines the partial dependency order: a unit may only import
// layers at or below its own rank. Layers absent from the table do not
// participate in ordering checks.
var layerRanks = map[Layer]int{
	LayerPureLogic:      0,
	LayerPort:           1,
	LayerOrchestration:  1,
	LayerAdapter:        2,
	LayerInfrastructure: 3,
}

// Rank returns the layer's position in the dependency order and whether
// the layer participates in ordering at all.
func (l Layer) Rank() (int, bool) {
	rank, ok := layerRanks[l]
	return rank, ok
}
