package tokens

import (
	"fmt"
	"strings"
)

// Layer names one of the two root mappings.
type Layer string

const (
	LayerTokens  Layer = "tokens"
	LayerPalette Layer = "palette"
)

// Store holds the decoded palette and token trees. It is never mutated after
// construction and may be shared between goroutines.
type Store struct {
	palette *Node
	tokens  *Node
}

// Leaf is a terminal entry found while walking a layer.
type Leaf struct {
	Layer       Layer  `json:"layer" yaml:"layer"`
	Path        string `json:"path" yaml:"path"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewStore decodes the palette and token documents. Both roots must be objects.
func NewStore(paletteData, tokensData []byte) (*Store, error) {
	palette, err := decodeRoot(LayerPalette, paletteData)
	if err != nil {
		return nil, err
	}
	tokens, err := decodeRoot(LayerTokens, tokensData)
	if err != nil {
		return nil, err
	}
	return &Store{palette: palette, tokens: tokens}, nil
}

func decodeRoot(layer Layer, data []byte) (*Node, error) {
	root, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", layer, err)
	}
	if root.Kind != KindMapping {
		return nil, fmt.Errorf("decode %s: %w: root is a %s, want an object", layer, ErrMalformedSource, root.Kind)
	}
	return root, nil
}

// Root returns the root mapping for a layer.
func (s *Store) Root(layer Layer) *Node {
	if s == nil {
		return nil
	}
	switch layer {
	case LayerTokens:
		return s.tokens
	case LayerPalette:
		return s.palette
	default:
		return nil
	}
}

// Count returns the number of non-mapping entries in a layer.
func (s *Store) Count(layer Layer) int {
	return countEntries(s.Root(layer))
}

func countEntries(node *Node) int {
	count := 0
	for _, key := range node.Keys() {
		child, _ := node.Child(key)
		if child.Kind == KindMapping {
			count += countEntries(child)
			continue
		}
		count++
	}
	return count
}

// Walk calls fn for every color leaf of the tokens layer, then the palette
// layer, in document order. Walking stops at the first error fn returns.
func (s *Store) Walk(fn func(Leaf) error) error {
	for _, layer := range []Layer{LayerTokens, LayerPalette} {
		if err := walkNode(layer, s.Root(layer), nil, fn); err != nil {
			return err
		}
	}
	return nil
}

// Leaves returns every leaf whose path starts with prefix ("" matches all).
func (s *Store) Leaves(prefix string) []Leaf {
	prefix = strings.Trim(prefix, "/")
	var leaves []Leaf
	_ = s.Walk(func(leaf Leaf) error {
		if prefix == "" || leaf.Path == prefix || strings.HasPrefix(leaf.Path, prefix+"/") {
			leaves = append(leaves, leaf)
		}
		return nil
	})
	return leaves
}

func walkNode(layer Layer, node *Node, path []string, fn func(Leaf) error) error {
	for _, key := range node.Keys() {
		child, _ := node.Child(key)
		childPath := append(path[:len(path):len(path)], key)

		if child.Kind == KindMapping {
			if err := walkNode(layer, child, childPath, fn); err != nil {
				return err
			}
			continue
		}

		value, ok := child.Value()
		if !ok {
			continue
		}
		def, _ := child.Color()
		leaf := Leaf{
			Layer:       layer,
			Path:        strings.Join(childPath, "/"),
			Value:       value,
			Description: def.Description,
		}
		if err := fn(leaf); err != nil {
			return err
		}
	}
	return nil
}
