package harvest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dwest77a/stac-harvester/pkg/config"
	"github.com/dwest77a/stac-harvester/pkg/errors"
	"github.com/dwest77a/stac-harvester/pkg/stac"
)

// Reader yields catalog nodes from the source, in publish order: each
// collection followed immediately by its items. The sequence is lazy and
// single-pass. Next returns io.EOF once the source is exhausted; any other
// error is fatal to the harvest.
type Reader interface {
	Next() (*stac.Node, error)
}

// newReader selects the reader implementation for the input descriptor. It
// also returns the href prefix of source-side objects, which drives the link
// rewrite. This is the only place the input kind is branched on.
func newReader(input config.Endpoint) (Reader, string, error) {
	switch input.Type {
	case config.KindAPI:
		root := strings.TrimSuffix(input.Root, "/")
		return newAPIReader(root, http.DefaultClient), root, nil
	case config.KindStatic:
		catalog, err := stac.LoadCatalog(fs, input.Root)
		if err != nil {
			return nil, "", errors.WithContext(err, "open source catalog")
		}
		return newStaticReader(catalog), catalog.RootPrefix(), nil
	}
	return nil, "", errors.New(fmt.Sprintf("unsupported input type %q", input.Type))
}
