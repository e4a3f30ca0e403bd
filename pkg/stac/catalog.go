package stac

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/dwest77a/stac-harvester/pkg/errors"
)

// rootFileName is the conventional file name of a static catalog's root
// document.
const rootFileName = "catalog.json"

// Catalog is a handle on the root of a static catalog: a tree of linked
// metadata files on durable storage. The root document advertises an href
// (which may be a URL) while the tree itself lives under the directory of
// `rootPath`, so hrefs are translated to file paths relative to it.
type Catalog struct {
	fs       afero.Fs
	rootPath string
	root     *Node
}

// LoadCatalog opens the static catalog whose root document is at `rootPath`.
func LoadCatalog(fs afero.Fs, rootPath string) (*Catalog, error) {
	root, err := readNode(fs, rootPath)
	if err != nil {
		return nil, errors.WithContext(err, "read catalog root")
	}
	return &Catalog{fs: fs, rootPath: rootPath, root: root}, nil
}

// Root returns the catalog's root node.
func (c *Catalog) Root() *Node {
	return c.root
}

// RootPrefix returns the advertised href of the catalog root with the root
// file name stripped, i.e. the prefix under which all of the catalog's
// objects are addressed.
func (c *Catalog) RootPrefix() string {
	href := c.root.SelfHref()
	if href == "" {
		href = filepath.ToSlash(c.rootPath)
	}
	return strings.TrimSuffix(href, "/"+rootFileName)
}

// PathFor translates an object href into the file path it's stored at. Hrefs
// under the root prefix map into the root document's directory; anything else
// is assumed to already be a path.
func (c *Catalog) PathFor(href string) string {
	prefix := c.RootPrefix()
	if !strings.HasPrefix(href, prefix) {
		return href
	}

	rel := strings.TrimPrefix(strings.TrimPrefix(href, prefix), "/")
	return filepath.Join(filepath.Dir(c.rootPath), filepath.FromSlash(rel))
}

// ReadNode reads and parses the catalog object stored at the given href.
func (c *Catalog) ReadNode(href string) (*Node, error) {
	return readNode(c.fs, c.PathFor(href))
}

// AddChild attaches `node` as a child of the catalog root. The child link is
// resolved from the node itself, so it tracks any later rewrite of the node's
// self link. The node's own parent links are left alone.
func (c *Catalog) AddChild(node *Node) {
	c.root.Links = append(c.root.Links, Link{
		Rel:        RelChild,
		MediaType:  "application/json",
		TargetNode: node,
	})
}

// WriteNode writes the node to durable storage at the path derived from its
// current self href. A repeated id overwrites the previous file.
func (c *Catalog) WriteNode(node *Node) error {
	href := node.SelfHref()
	if href == "" {
		return errors.New("node has no self link")
	}
	return c.writeFile(c.PathFor(href), node)
}

// Save persists the root document, including any children attached since the
// catalog was loaded.
func (c *Catalog) Save() error {
	return c.writeFile(c.rootPath, c.root)
}

func (c *Catalog) writeFile(path string, node *Node) error {
	contents, err := json.MarshalIndent(node.ToMapping(), "", "  ")
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := c.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithContext(err, "create parent directory")
	}

	if err := afero.WriteFile(c.fs, path, contents, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

func readNode(fs afero.Fs, path string) (*Node, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WithContext(err, "read file")
	}

	var mapping map[string]interface{}
	if err := json.Unmarshal(contents, &mapping); err != nil {
		return nil, errors.WithContext(err, "unmarshal")
	}

	node, err := FromMapping(mapping)
	if err != nil {
		return nil, errors.WithContext(err, "parse")
	}
	return node, nil
}
