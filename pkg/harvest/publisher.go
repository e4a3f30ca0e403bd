package harvest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dwest77a/stac-harvester/pkg/config"
	"github.com/dwest77a/stac-harvester/pkg/errors"
	"github.com/dwest77a/stac-harvester/pkg/stac"
)

// Publisher commits rewritten nodes to the destination catalog. Publishing
// is idempotent: re-running the same harvest against the same destination
// converges to the same state.
type Publisher interface {
	// Publish commits a single node. Failures are reported in the result
	// rather than returned, so the harvest continues with the remaining
	// nodes.
	Publish(node *stac.Node) Result

	// Flush persists any destination state buffered in memory. It's called
	// once, after the source sequence is exhausted.
	Flush() error
}

// newPublisher selects the publisher implementation for the output
// descriptor and builds the initial rewrite context for that destination.
// This is the only place the output kind is branched on.
func newPublisher(output config.Endpoint) (Publisher, Context, error) {
	switch output.Type {
	case config.KindStatic:
		catalog, err := stac.LoadCatalog(fs, output.Root)
		if err != nil {
			return nil, Context{}, errors.WithContext(err, "open destination catalog")
		}

		ctx := Context{
			Static:   true,
			DestRoot: catalog.RootPrefix(),
			Root:     catalog.Root(),
			Parent:   catalog.Root(),
		}
		return newStaticPublisher(catalog), ctx, nil
	case config.KindAPI:
		root := strings.TrimSuffix(output.Root, "/")
		return newAPIPublisher(root, http.DefaultClient), Context{DestRoot: root}, nil
	}
	return nil, Context{}, errors.New(fmt.Sprintf("unsupported output type %q", output.Type))
}
