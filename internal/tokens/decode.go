package tokens

import (
	"encoding/json"
	"fmt"

	"github.com/mailru/easyjson/jlexer"
)

const (
	typeKey        = "$type"
	valueKey       = "$value"
	descriptionKey = "$description"
	colorType      = "color"
)

// Decode parses a JSON document into a node tree. Objects shaped like a
// color definition become KindColor leaves; every other object is a mapping.
func Decode(data []byte) (*Node, error) {
	l := &jlexer.Lexer{Data: data}
	node := decodeValue(l)
	l.Consumed()
	if err := l.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	return node, nil
}

func decodeValue(l *jlexer.Lexer) *Node {
	switch {
	case l.IsNull():
		l.Null()
		return &Node{Kind: KindScalar}
	case l.IsDelim('{'):
		return decodeObject(l)
	case l.IsDelim('['):
		return decodeArray(l)
	default:
		return decodeScalar(l)
	}
}

// decodeScalar keeps numbers as their source text so values outside
// float64 range still decode.
func decodeScalar(l *jlexer.Lexer) *Node {
	raw := l.Raw()
	if len(raw) == 0 {
		return &Node{Kind: KindScalar}
	}
	switch raw[0] {
	case '"':
		sub := &jlexer.Lexer{Data: raw}
		s := sub.String()
		if err := sub.Error(); err != nil {
			l.AddError(err)
		}
		return &Node{Kind: KindScalar, scalar: s}
	case 't', 'f':
		return &Node{Kind: KindScalar, scalar: raw[0] == 't'}
	default:
		return &Node{Kind: KindScalar, scalar: json.Number(raw)}
	}
}

func decodeObject(l *jlexer.Lexer) *Node {
	node := newMapping()

	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.String()
		l.WantColon()
		node.set(key, decodeValue(l))
		l.WantComma()
	}
	l.Delim('}')

	if def, ok := asColorDefinition(node); ok {
		return &Node{Kind: KindColor, color: def}
	}
	return node
}

func decodeArray(l *jlexer.Lexer) *Node {
	node := &Node{Kind: KindSequence}

	l.Delim('[')
	for !l.IsDelim(']') {
		node.items = append(node.items, decodeValue(l))
		l.WantComma()
	}
	l.Delim(']')

	return node
}

func asColorDefinition(node *Node) (ColorDefinition, bool) {
	kind, ok := scalarString(node, typeKey)
	if !ok || kind != colorType {
		return ColorDefinition{}, false
	}
	value, ok := scalarString(node, valueKey)
	if !ok {
		return ColorDefinition{}, false
	}
	description, _ := scalarString(node, descriptionKey)

	return ColorDefinition{Type: kind, Value: value, Description: description}, true
}

func scalarString(node *Node, key string) (string, bool) {
	child, ok := node.Child(key)
	if !ok || child.Kind != KindScalar {
		return "", false
	}
	s, ok := child.scalar.(string)
	return s, ok
}
