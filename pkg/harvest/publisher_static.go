package harvest

import (
	"github.com/dwest77a/stac-harvester/pkg/errors"
	"github.com/dwest77a/stac-harvester/pkg/stac"
)

// staticPublisher writes nodes into a static catalog tree. Collections are
// attached as children of the destination root; every node is written to
// durable storage immediately, and the modified root document is persisted
// by Flush. Repeated ids overwrite the previous file: last write wins.
type staticPublisher struct {
	catalog *stac.Catalog
}

func newStaticPublisher(catalog *stac.Catalog) *staticPublisher {
	return &staticPublisher{catalog: catalog}
}

func (p *staticPublisher) Publish(node *stac.Node) Result {
	if node.Type == stac.TypeCollection {
		p.catalog.AddChild(node)
	}

	result := Result{ID: node.ID, Type: node.Type, Status: StatusCreated}
	if err := p.catalog.WriteNode(node); err != nil {
		result.Status = StatusFailed
		result.Err = errors.WithContext(err, "write node")
	}
	return result
}

func (p *staticPublisher) Flush() error {
	return p.catalog.Save()
}
