package harvest

import (
	"io"

	"github.com/dwest77a/stac-harvester/pkg/errors"
	"github.com/dwest77a/stac-harvester/pkg/stac"
)

// staticReader harvests from a pre-existing static catalog tree. It walks the
// tree depth-first, yielding each collection, then its items, then any nested
// collections. Files are only read as the sequence reaches them.
type staticReader struct {
	catalog *stac.Catalog
	pending []string
}

func newStaticReader(catalog *stac.Catalog) *staticReader {
	return &staticReader{
		catalog: catalog,
		pending: linkHrefs(catalog.Root(), stac.RelChild),
	}
}

func (r *staticReader) Next() (*stac.Node, error) {
	if len(r.pending) == 0 {
		return nil, io.EOF
	}

	href := r.pending[0]
	r.pending = r.pending[1:]

	node, err := r.catalog.ReadNode(href)
	if err != nil {
		return nil, errors.WithContext(err, "read source object")
	}

	if node.Type == stac.TypeCollection {
		// The collection's items come right after it, then its nested
		// collections, then the remaining siblings.
		next := append(linkHrefs(node, stac.RelItem), linkHrefs(node, stac.RelChild)...)
		r.pending = append(next, r.pending...)
	}
	return node, nil
}

func linkHrefs(node *stac.Node, rel stac.Rel) (hrefs []string) {
	for _, link := range node.Links {
		if link.Rel == rel {
			hrefs = append(hrefs, link.Href)
		}
	}
	return hrefs
}
