// Package tokens loads design-token documents and resolves token paths to
// colors through the tokens → palette → literal alias chain.
package tokens

// Kind tags the variant held by a Node.
type Kind uint8

const (
	KindScalar Kind = iota
	KindMapping
	KindColor
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindColor:
		return "color"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// ColorDefinition is a {"$type": "color", "$value": ...} leaf.
type ColorDefinition struct {
	Type        string `json:"$type" yaml:"type"`
	Value       string `json:"$value" yaml:"value"`
	Description string `json:"$description,omitempty" yaml:"description,omitempty"`
}

// Node is one decoded JSON value.
type Node struct {
	Kind Kind

	keys     []string
	children map[string]*Node
	items    []*Node
	scalar   any
	color    ColorDefinition
}

func newMapping() *Node {
	return &Node{Kind: KindMapping, children: make(map[string]*Node)}
}

func (n *Node) set(key string, child *Node) {
	if _, exists := n.children[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

// Child returns the mapping entry for key.
func (n *Node) Child(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMapping {
		return nil, false
	}
	child, ok := n.children[key]
	return child, ok
}

// Keys returns mapping keys in document order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindMapping {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Len returns the number of mapping entries or sequence items.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindMapping:
		return len(n.keys)
	case KindSequence:
		return len(n.items)
	default:
		return 0
	}
}

// Items returns the elements of a sequence.
func (n *Node) Items() []*Node {
	if n == nil || n.Kind != KindSequence {
		return nil
	}
	return n.items
}

// Color returns the leaf definition of a color node.
func (n *Node) Color() (ColorDefinition, bool) {
	if n == nil || n.Kind != KindColor {
		return ColorDefinition{}, false
	}
	return n.color, true
}

// Scalar returns the primitive held by a scalar node: string, json.Number,
// bool or nil.
func (n *Node) Scalar() any {
	if n == nil || n.Kind != KindScalar {
		return nil
	}
	return n.scalar
}

// Value returns the color value carried by a leaf: the $value of a color
// definition or a bare string scalar.
func (n *Node) Value() (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case KindColor:
		return n.color.Value, true
	case KindScalar:
		s, ok := n.scalar.(string)
		return s, ok
	default:
		return "", false
	}
}
