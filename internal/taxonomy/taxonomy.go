// Package taxonomy decodes brand taxonomies. Nodes are keyed by an id of the
// form "lang:tag", carry display names and synonyms per language, and may
// point at parent nodes.
package taxonomy

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed data/brands.json
var embeddedBrands []byte

// DefaultLanguage is preferred when picking a node's display name.
const DefaultLanguage = "en"

type rawNode struct {
	Name     map[string]string   `json:"name"`
	Synonyms map[string][]string `json:"synonyms"`
	Parents  []string            `json:"parents"`
}

// Node is a read-only brand concept.
type Node struct {
	ID       string
	Tag      string
	Names    map[string]string
	Synonyms map[string][]string
	Parents  []*Node
}

// DisplayName returns the name in DefaultLanguage, falling back to the
// first language in alphabetical order and finally to the tag.
func (n *Node) DisplayName() string {
	if name, ok := n.Names[DefaultLanguage]; ok && name != "" {
		return name
	}
	for _, lang := range sortedKeys(n.Names) {
		if name := n.Names[lang]; name != "" {
			return name
		}
	}
	return n.Tag
}

// SurfaceForms lists every synonym of the node across all languages, in
// language order and then in listed order. Names that are not also listed
// as synonyms are appended to the end. Duplicates are kept.
func (n *Node) SurfaceForms() []string {
	var forms []string
	listed := make(map[string]struct{})
	for _, lang := range sortedKeys(n.Synonyms) {
		for _, synonym := range n.Synonyms[lang] {
			forms = append(forms, synonym)
			listed[synonym] = struct{}{}
		}
	}
	for _, lang := range sortedKeys(n.Names) {
		name := n.Names[lang]
		if _, ok := listed[name]; !ok && name != "" {
			forms = append(forms, name)
			listed[name] = struct{}{}
		}
	}
	return forms
}

// Taxonomy holds nodes sorted by id, which gives every consumer the same
// iteration order for the same input.
type Taxonomy struct {
	nodes []*Node
	byID  map[string]*Node
}

func (t *Taxonomy) Nodes() []*Node {
	return t.nodes
}

func (t *Taxonomy) Len() int {
	return len(t.nodes)
}

func (t *Taxonomy) Get(id string) (*Node, bool) {
	node, ok := t.byID[id]
	return node, ok
}

// Embedded returns the brand taxonomy bundled with the binary.
func Embedded() (*Taxonomy, error) {
	return FromBytes(embeddedBrands)
}

func FromFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy %s: %w", path, err)
	}
	return FromBytes(data)
}

func FromReader(r io.Reader) (*Taxonomy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}
	return FromBytes(data)
}

func FromBytes(data []byte) (*Taxonomy, error) {
	var raw map[string]rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal taxonomy: %w", err)
	}

	t := &Taxonomy{
		nodes: make([]*Node, 0, len(raw)),
		byID:  make(map[string]*Node, len(raw)),
	}
	for _, id := range sortedKeys(raw) {
		node := &Node{
			ID:       id,
			Tag:      tagFromID(id),
			Names:    raw[id].Name,
			Synonyms: raw[id].Synonyms,
		}
		t.nodes = append(t.nodes, node)
		t.byID[id] = node
	}

	for _, node := range t.nodes {
		for _, parentID := range raw[node.ID].Parents {
			parent, ok := t.byID[parentID]
			if !ok {
				return nil, fmt.Errorf("node %s refers to unknown parent %s", node.ID, parentID)
			}
			node.Parents = append(node.Parents, parent)
		}
	}

	return t, nil
}

// tagFromID drops the language prefix: "en:bio-c-bon" -> "bio-c-bon".
func tagFromID(id string) string {
	if i := strings.Index(id, ":"); i >= 0 {
		return id[i+1:]
	}
	return id
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
