package harvest

import (
	"strings"

	"github.com/dwest77a/stac-harvester/pkg/stac"
)

// Context carries the state needed to rewrite one node's links for the
// destination. The parent reference is the only field that changes over the
// course of a harvest; it's owned by the Harvester and scoped to one run.
type Context struct {
	// SourceRoot is the href prefix of all source-side objects.
	SourceRoot string

	// DestRoot is the corresponding prefix under the destination root.
	DestRoot string

	// Static is whether the destination is a static tree. Static addressing
	// appends a type-specific file suffix to self hrefs; API addressing is
	// endpoint-relative, so it doesn't.
	Static bool

	// Parent is the most recently published collection. Parent and
	// collection links always point at it, never at the original source
	// parent.
	Parent *stac.Node

	// Root is the destination catalog root. Nil for API destinations, where
	// DestRoot is used directly.
	Root *stac.Node
}

// Suffixes distinguishing collection files from item files under static
// addressing.
const (
	collectionSuffix = "/collection.json"
	itemSuffix       = ".json"
)

// Rewrite returns a copy of `node` whose links are valid under the
// destination root. The original node is not modified. The branch order is
// load-bearing: link relations aren't mutually exclusive for all inputs, so
// the first matching branch must win.
func Rewrite(node *stac.Node, ctx Context) *stac.Node {
	out := node.Clone()

	links := []stac.Link{}
	for _, link := range node.Links {
		switch {
		case link.Rel == stac.RelSelf:
			href := strings.Replace(link.Href, ctx.SourceRoot, ctx.DestRoot, 1)
			if ctx.Static {
				// Trim-then-append, so hrefs from static sources that
				// already carry the marker don't get it twice.
				suffix := itemSuffix
				if node.Type == stac.TypeCollection {
					suffix = collectionSuffix
				}
				href = strings.TrimSuffix(href, suffix) + suffix
			}
			link.Target = href
			link.TargetNode = nil

		case link.Rel == stac.RelParent || link.Rel == stac.RelCollection:
			link = retarget(link, ctx.Parent, ctx)

		case link.Rel == stac.RelRoot:
			// Always the destination root, regardless of the original href.
			link = retarget(link, ctx.Root, ctx)

		case strings.HasPrefix(link.Href, ctx.SourceRoot):
			link.Target = strings.Replace(link.Href, ctx.SourceRoot, ctx.DestRoot, 1)
			link.TargetNode = nil

		default:
			// Links that don't resolve under the source root are dropped.
			continue
		}
		links = append(links, link)
	}

	out.Links = links
	return out
}

func retarget(link stac.Link, target *stac.Node, ctx Context) stac.Link {
	link.TargetNode = target
	link.Target = ctx.DestRoot
	return link
}
