package harvest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dwest77a/stac-harvester/pkg/errors"
	"github.com/dwest77a/stac-harvester/pkg/stac"
)

// apiPublisher commits nodes to a STAC API with a create-or-update protocol:
// POST to the create endpoint, and on a conflict (the id already exists) PUT
// the same body to the update endpoint. Anything else is a failed publish
// for that node.
type apiPublisher struct {
	client *http.Client
	root   string
}

func newAPIPublisher(root string, client *http.Client) *apiPublisher {
	return &apiPublisher{client: client, root: root}
}

func (p *apiPublisher) Publish(node *stac.Node) Result {
	result := Result{ID: node.ID, Type: node.Type}

	var createURL, updateURL, conflictMsg string
	if node.Type == stac.TypeCollection {
		createURL = p.root + "/collections"
		updateURL = p.root + "/collections"
		conflictMsg = fmt.Sprintf("Collection %s already exists", node.ID)
	} else {
		createURL = fmt.Sprintf("%s/collections/%s/items", p.root, node.Collection)
		updateURL = fmt.Sprintf("%s/collections/%s/items/%s", p.root, node.Collection, node.ID)
		conflictMsg = fmt.Sprintf("Item %s in collection %s already exists",
			node.ID, node.Collection)
	}

	payload, err := json.Marshal(node.ToMapping())
	if err != nil {
		result.Status = StatusFailed
		result.Err = errors.WithContext(err, "marshal")
		return result
	}

	status, body, err := p.send(http.MethodPost, createURL, payload)
	if err != nil {
		result.Status = StatusFailed
		result.Err = errors.WithContext(err, "create")
		return result
	}

	switch {
	case status == http.StatusOK:
		result.Status = StatusCreated
		return result
	case status == http.StatusConflict && conflictDescription(body) == conflictMsg:
		// Expected on a re-harvest. Fall back to updating in place.
	default:
		result.Status = StatusFailed
		result.Err = errors.PublishError{ID: node.ID, StatusCode: status, Body: string(body)}
		return result
	}

	status, body, err = p.send(http.MethodPut, updateURL, payload)
	if err != nil {
		result.Status = StatusFailed
		result.Err = errors.WithContext(err, "update")
		return result
	}
	if status != http.StatusOK {
		result.Status = StatusFailed
		result.Err = errors.PublishError{ID: node.ID, StatusCode: status, Body: string(body)}
		return result
	}

	result.Status = StatusUpdated
	return result
}

// Flush is a no-op: API writes are durable as soon as they succeed.
func (p *apiPublisher) Flush() error {
	return nil
}

func (p *apiPublisher) send(method, url string, payload []byte) (int, []byte, error) {
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// conflictDescription extracts the human-readable description the API uses
// to report that an id already exists. The API doesn't expose a structured
// conflict code, so the string match above is the contract.
func conflictDescription(body []byte) string {
	var parsed struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Description
}
