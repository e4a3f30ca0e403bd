package harvest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dwest77a/stac-harvester/pkg/errors"
	"github.com/dwest77a/stac-harvester/pkg/stac"
)

// apiReader harvests from a live STAC API. It lists the collections at the
// source root, and the items of each collection as the sequence reaches it,
// so a collection's items are never fetched before the collection itself is
// consumed. Both listings follow rel=next links for pagination.
type apiReader struct {
	client *http.Client
	root   string

	collections     []map[string]interface{}
	collectionsNext string

	// collection is the id of the collection whose items are currently being
	// yielded. Item pages are fetched from itemsNext until it's empty.
	collection string
	items      []map[string]interface{}
	itemsNext  string
}

func newAPIReader(root string, client *http.Client) *apiReader {
	return &apiReader{
		client:          client,
		root:            root,
		collectionsNext: root + "/collections",
	}
}

func (r *apiReader) Next() (*stac.Node, error) {
	for {
		if len(r.items) > 0 {
			mapping := r.items[0]
			r.items = r.items[1:]

			node, err := stac.FromMapping(mapping)
			if err != nil {
				return nil, errors.WithContext(err, "parse item")
			}
			if node.Collection == "" {
				node.Collection = r.collection
			}
			return node, nil
		}

		if r.itemsNext != "" {
			page, err := r.fetch(r.itemsNext)
			if err != nil {
				return nil, errors.WithContext(err,
					fmt.Sprintf("list items in collection %q", r.collection))
			}
			r.items = page.Features
			r.itemsNext = page.next()
			continue
		}

		if len(r.collections) > 0 {
			mapping := r.collections[0]
			r.collections = r.collections[1:]

			node, err := stac.FromMapping(mapping)
			if err != nil {
				return nil, errors.WithContext(err, "parse collection")
			}
			r.collection = node.ID
			r.itemsNext = fmt.Sprintf("%s/collections/%s/items", r.root, node.ID)
			return node, nil
		}

		if r.collectionsNext != "" {
			page, err := r.fetch(r.collectionsNext)
			if err != nil {
				return nil, errors.WithContext(err, "list collections")
			}
			r.collections = page.Collections
			r.collectionsNext = page.next()
			continue
		}

		return nil, io.EOF
	}
}

// page is one response from either listing endpoint. The collections listing
// populates Collections, the items listing populates Features.
type page struct {
	Collections []map[string]interface{} `json:"collections"`
	Features    []map[string]interface{} `json:"features"`
	Links       []pageLink               `json:"links"`
}

type pageLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

func (p page) next() string {
	for _, link := range p.Links {
		if link.Rel == "next" {
			return link.Href
		}
	}
	return ""
}

func (r *apiReader) fetch(url string) (page, error) {
	resp, err := r.client.Get(url)
	if err != nil {
		return page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return page{}, errors.New(fmt.Sprintf("unexpected status %d for %s",
			resp.StatusCode, url))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return page{}, errors.WithContext(err, "read response")
	}

	var parsed page
	if err := json.Unmarshal(body, &parsed); err != nil {
		return page{}, errors.WithContext(err, "unmarshal response")
	}
	return parsed, nil
}
