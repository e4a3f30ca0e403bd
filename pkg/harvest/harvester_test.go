package harvest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwest77a/stac-harvester/pkg/config"
)

func TestHarvestStaticToStatic(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeTestJSON(t, fs, "/src/catalog.json", map[string]interface{}{
		"id":   "src-catalog",
		"type": "Catalog",
		"links": []interface{}{
			map[string]interface{}{"rel": "self", "href": "https://src/catalog.json"},
			map[string]interface{}{"rel": "child", "href": "https://src/A/collection.json"},
		},
	})
	writeTestJSON(t, fs, "/src/A/collection.json", map[string]interface{}{
		"id":   "A",
		"type": "Collection",
		"links": []interface{}{
			map[string]interface{}{"rel": "self", "href": "https://src/A/collection.json"},
			map[string]interface{}{"rel": "root", "href": "https://src/catalog.json"},
		},
	})
	writeDestRoot(t)

	report := runHarvest(t, config.Harvester{
		Input:  config.Endpoint{Type: config.KindStatic, Root: "/src/catalog.json"},
		Output: config.Endpoint{Type: config.KindStatic, Root: "/dst/catalog.json"},
	})

	assert.Equal(t, 1, report.Collections)
	assert.Equal(t, 0, report.Items)
	assert.NoError(t, report.Err())
	assert.Contains(t, report.Summary(), "Harvested 1 Collections and 0 Items")

	// The published collection is addressed under the destination root, its
	// self link carries the collection marker, and its root link points at
	// the destination catalog.
	collection := readDestJSON(t, "/dst/A/collection.json")
	assert.Equal(t, map[string]string{
		"self": "https://dst/A/collection.json",
		"root": "https://dst/catalog.json",
	}, linkHrefMap(collection))

	// And the destination root now lists it as a child.
	root := readDestJSON(t, "/dst/catalog.json")
	assert.Equal(t, "https://dst/A/collection.json", linkHrefMap(root)["child"])
}

func TestHarvestParentPropagation(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeSourceTree(t, fs)
	writeDestRoot(t)

	report := runHarvest(t, config.Harvester{
		Input:  config.Endpoint{Type: config.KindStatic, Root: "/src/catalog.json"},
		Output: config.Endpoint{Type: config.KindStatic, Root: "/dst/catalog.json"},
	})

	assert.Equal(t, 3, report.Collections)
	assert.Equal(t, 2, report.Items)

	// A-1's parent is the just-published collection A, not the source parent.
	item := readDestJSON(t, "/dst/A/A-1.json")
	assert.Equal(t, "https://dst/A/A-1.json", linkHrefMap(item)["self"])
	assert.Equal(t, "https://dst/A/collection.json", linkHrefMap(item)["parent"])

	// A-sub-1 was published after A-sub, so its parent is A-sub.
	nested := readDestJSON(t, "/dst/A/A-sub/A-sub-1.json")
	assert.Equal(t, "https://dst/A/A-sub/collection.json", linkHrefMap(nested)["parent"])
}

func TestHarvestAPIToAPIIdempotence(t *testing.T) {
	// The source reports a different description on each run, so we can tell
	// which run's payload the destination ended up with.
	run := 0
	router := http.NewServeMux()
	router.HandleFunc("/collections", func(w http.ResponseWriter, r *http.Request) {
		body := collectionBody("B")
		body["description"] = fmt.Sprintf("run %d", run)
		writeResponse(t, w, map[string]interface{}{
			"collections": []interface{}{body},
		})
	})
	router.HandleFunc("/collections/B/items", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(t, w, map[string]interface{}{"features": []interface{}{}})
	})
	source := httptest.NewServer(router)
	defer source.Close()

	destAPI := newFakeCatalogAPI()
	dest := httptest.NewServer(destAPI.router())
	defer dest.Close()

	conf := config.Harvester{
		Input:  config.Endpoint{Type: config.KindAPI, Root: source.URL},
		Output: config.Endpoint{Type: config.KindAPI, Root: dest.URL},
	}

	run = 1
	report := runHarvest(t, conf)
	assert.Equal(t, 1, report.Collections)
	assert.NoError(t, report.Err())

	run = 2
	report = runHarvest(t, conf)
	assert.Equal(t, 1, report.Collections)
	assert.NoError(t, report.Err())

	// Exactly one stored object, matching the second run's payload.
	require.Len(t, destAPI.collections, 1)
	assert.Equal(t, "run 2", destAPI.collections["B"]["description"])
}

func TestHarvestReportsPublishFailures(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeSourceTree(t, fs)

	dest := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
	defer dest.Close()

	report := runHarvest(t, config.Harvester{
		Input:  config.Endpoint{Type: config.KindStatic, Root: "/src/catalog.json"},
		Output: config.Endpoint{Type: config.KindAPI, Root: dest.URL},
	})

	// Every node failed, the harvest kept going, and the report says so.
	assert.Equal(t, 0, report.Collections)
	assert.Equal(t, 0, report.Items)
	assert.Len(t, report.Failures, 5)
	assert.Error(t, report.Err())
}

func TestHarvestSourceFailureIsFatal(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
	defer source.Close()

	destAPI := newFakeCatalogAPI()
	dest := httptest.NewServer(destAPI.router())
	defer dest.Close()

	harvester, err := New(config.Harvester{
		Input:  config.Endpoint{Type: config.KindAPI, Root: source.URL},
		Output: config.Endpoint{Type: config.KindAPI, Root: dest.URL},
	})
	require.NoError(t, err)
	harvester.clock = clockwork.NewFakeClock()

	_, err = harvester.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read source")
}

func runHarvest(t *testing.T, conf config.Harvester) Report {
	harvester, err := New(conf)
	require.NoError(t, err)
	harvester.clock = clockwork.NewFakeClock()

	report, err := harvester.Run()
	require.NoError(t, err)
	return report
}

func writeDestRoot(t *testing.T) {
	writeTestJSON(t, fs, "/dst/catalog.json", map[string]interface{}{
		"id":   "dst-catalog",
		"type": "Catalog",
		"links": []interface{}{
			map[string]interface{}{"rel": "self", "href": "https://dst/catalog.json"},
		},
	})
}

func readDestJSON(t *testing.T, path string) map[string]interface{} {
	contents, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(contents, &parsed))
	return parsed
}

// linkHrefMap flattens an object's serialized links into rel -> href.
func linkHrefMap(body map[string]interface{}) map[string]string {
	hrefs := map[string]string{}
	for _, rawLink := range body["links"].([]interface{}) {
		link := rawLink.(map[string]interface{})
		hrefs[link["rel"].(string)] = link["href"].(string)
	}
	return hrefs
}
