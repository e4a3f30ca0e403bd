package stac

import (
	"strings"

	"github.com/dwest77a/stac-harvester/pkg/errors"
)

// Rel is the role a hyperlink plays in an object's link network. Any value
// outside the constants below is treated as "other" by consumers.
type Rel string

const (
	RelSelf       Rel = "self"
	RelRoot       Rel = "root"
	RelParent     Rel = "parent"
	RelCollection Rel = "collection"
	RelChild      Rel = "child"
	RelItem       Rel = "item"
)

// Type identifies the STAC object type.
type Type string

const (
	TypeCollection Type = "Collection"

	// TypeItem is "Feature" because STAC items serialize as GeoJSON features.
	TypeItem Type = "Feature"
)

// Link is one edge in an object's link network.
type Link struct {
	Rel   Rel
	Href  string
	Title string

	// MediaType is the media type of the linked object, e.g. "application/json".
	MediaType string

	// Target is the destination-side URI the link resolves to. TargetNode
	// takes precedence when set; the href is then resolved from the node's
	// current self link at serialization time, so it tracks any rewrite of
	// the target node.
	Target     string
	TargetNode *Node
}

// ResolvedHref returns the href the link currently points at.
func (l Link) ResolvedHref() string {
	if l.TargetNode != nil {
		return l.TargetNode.SelfHref()
	}
	if l.Target != "" {
		return l.Target
	}
	return l.Href
}

// Node is a single catalog object: a Collection or an Item. The links are
// parsed out of the body so they can be rewritten; everything else in the
// body is opaque to the harvester and passes through untouched.
type Node struct {
	ID   string
	Type Type

	// Collection is the id of the owning collection. Only set for items.
	Collection string

	// Links is ordered. The order is meaningful and must be preserved.
	Links []Link

	body map[string]interface{}
}

// FromMapping constructs a Node from a decoded STAC JSON object.
func FromMapping(m map[string]interface{}) (*Node, error) {
	id, ok := m["id"].(string)
	if !ok || id == "" {
		return nil, errors.MissingFieldError{Field: "id"}
	}

	typeStr, ok := m["type"].(string)
	if !ok {
		return nil, errors.MissingFieldError{Field: "type"}
	}

	node := &Node{
		ID:   id,
		Type: TypeItem,
		body: m,
	}
	// Some APIs report the type in lowercase. Catalog roots behave like
	// collections for the purposes of link rewriting.
	if strings.EqualFold(typeStr, string(TypeCollection)) || strings.EqualFold(typeStr, "catalog") {
		node.Type = TypeCollection
	}

	if collection, ok := m["collection"].(string); ok {
		node.Collection = collection
	}

	rawLinks, _ := m["links"].([]interface{})
	for _, rawLink := range rawLinks {
		linkMap, ok := rawLink.(map[string]interface{})
		if !ok {
			continue
		}

		link := Link{
			Rel:  Rel(stringField(linkMap, "rel")),
			Href: stringField(linkMap, "href"),
		}
		link.Title = stringField(linkMap, "title")
		link.MediaType = stringField(linkMap, "type")
		node.Links = append(node.Links, link)
	}
	return node, nil
}

// ToMapping serializes the node back into a generic STAC JSON object. The
// link list is rebuilt from the node's current links; node references are
// resolved to their current self hrefs.
func (n *Node) ToMapping() map[string]interface{} {
	m := map[string]interface{}{}
	for key, value := range n.body {
		m[key] = value
	}

	// Nodes constructed in memory have no body; fill in the identifying
	// fields so they still serialize to a valid object. The body wins when
	// both are present since catalog roots report their own type.
	if _, ok := m["id"]; !ok {
		m["id"] = n.ID
	}
	if _, ok := m["type"]; !ok {
		m["type"] = string(n.Type)
	}
	if _, ok := m["collection"]; !ok && n.Collection != "" {
		m["collection"] = n.Collection
	}

	links := []interface{}{}
	for _, link := range n.Links {
		linkMap := map[string]interface{}{
			"rel":  string(link.Rel),
			"href": link.ResolvedHref(),
		}
		if link.Title != "" {
			linkMap["title"] = link.Title
		}
		if link.MediaType != "" {
			linkMap["type"] = link.MediaType
		}
		links = append(links, linkMap)
	}
	m["links"] = links
	return m
}

// SelfHref returns the node's current location: the resolved href of its
// "self" link, or empty if the node doesn't have one.
func (n *Node) SelfHref() string {
	for _, link := range n.Links {
		if link.Rel == RelSelf {
			return link.ResolvedHref()
		}
	}
	return ""
}

// Clone returns a copy of the node whose link list can be modified without
// affecting the original. The body is shared since the harvester never
// modifies it.
func (n *Node) Clone() *Node {
	clone := *n
	clone.Links = append([]Link(nil), n.Links...)
	return &clone
}

func stringField(m map[string]interface{}, key string) string {
	value, _ := m[key].(string)
	return value
}
