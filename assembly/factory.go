package assembly

import "github.com/meikuraledutech/aoplan/graph"

// Factory builds an assembly graph from node names. Names are the stable
// keys of the input format; the factory owns the name-to-identifier mapping
// and guarantees one node per name.
type Factory struct {
	g       *Graph
	byName  map[string]graph.NodeID
	root    graph.NodeID
	rootSet bool
}

// NewFactory returns a factory over a fresh graph.
func NewFactory() *Factory {
	return &Factory{
		g:      New(),
		byName: make(map[string]graph.NodeID),
	}
}

// InsertOr inserts a subassembly node. If the name already exists, the
// existing identifier is returned.
func (f *Factory) InsertOr(name string) graph.NodeID {
	return f.insert(name, KindSubassembly)
}

// InsertAnd inserts an action node. If the name already exists, the
// existing identifier is returned.
func (f *Factory) InsertAnd(name string) graph.NodeID {
	return f.insert(name, KindAction)
}

func (f *Factory) insert(name string, kind Kind) graph.NodeID {
	if id, ok := f.byName[name]; ok {
		return id
	}
	id := f.g.InsertNode(NodeData{Kind: kind, Name: name})
	f.byName[name] = id
	return id
}

// InsertEdge resolves both names and inserts a directed edge. It reports
// false when either endpoint is unknown.
func (f *Factory) InsertEdge(fromName, toName string) bool {
	from, ok := f.byName[fromName]
	if !ok {
		return false
	}
	to, ok := f.byName[toName]
	if !ok {
		return false
	}
	_, err := f.g.InsertEdge(struct{}{}, from, to)
	return err == nil
}

// SetRoot designates the root subassembly. It reports false when the name
// is unknown.
func (f *Factory) SetRoot(name string) bool {
	id, ok := f.byName[name]
	if !ok {
		return false
	}
	f.root = id
	f.rootSet = true
	return true
}

// Graph returns the graph under construction.
func (f *Factory) Graph() *Graph { return f.g }

// Root returns the designated root node, if one has been set.
func (f *Factory) Root() (graph.NodeID, bool) { return f.root, f.rootSet }

// NodeID resolves a node name to its identifier.
func (f *Factory) NodeID(name string) (graph.NodeID, bool) {
	id, ok := f.byName[name]
	return id, ok
}
