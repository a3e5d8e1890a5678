package tokens

import (
	"github.com/opencode-ai/tint/internal/colors"
	"github.com/rs/zerolog"
)

var layerOrder = [...]Layer{LayerTokens, LayerPalette}

// resolver follows one token through its alias chain.
type resolver struct {
	store  *Store
	logger zerolog.Logger
	token  string

	chain   []string
	visited map[string]bool
}

func (r *resolver) resolve(parts []string) (string, error) {
	if len(parts) > 0 && colors.IsHex(parts[0]) {
		return parts[0], nil
	}

	path := JoinPath(parts)
	r.chain = append(r.chain, path)

	// A path is followed at most once per call, whichever layer answers it.
	if r.visited[path] {
		return "", r.fail(path, ErrCyclicAlias)
	}
	r.markVisited(path)

	for _, layer := range layerOrder {
		value, ok := r.lookup(layer, parts)
		if !ok {
			continue
		}
		r.matched(layer, path, value)
		return r.resolve(SplitAlias(value))
	}
	return "", r.fail(path, ErrTokenNotFound)
}

// resolveLeaf starts from a leaf already located in its layer, so the first
// step never falls through to another layer or re-normalizes the leaf's keys.
func (r *resolver) resolveLeaf(leaf Leaf) (string, error) {
	r.chain = append(r.chain, leaf.Path)
	r.markVisited(leaf.Path)
	r.matched(leaf.Layer, leaf.Path, leaf.Value)
	return r.resolve(SplitAlias(leaf.Value))
}

func (r *resolver) matched(layer Layer, path, value string) {
	r.logger.Debug().
		Str("layer", string(layer)).
		Str("path", path).
		Str("value", value).
		Msg("token matched")
}

// lookup walks one layer, consuming one segment per mapping level. It
// succeeds only when the final segment names a leaf carrying a value.
func (r *resolver) lookup(layer Layer, parts []string) (string, bool) {
	node := r.store.Root(layer)
	for i, part := range parts {
		if node.Kind != KindMapping {
			r.logger.Debug().
				Str("layer", string(layer)).
				Str("key", parts[i-1]).
				Str("path", JoinPath(parts)).
				Msg("invalid type for key")
			return "", false
		}

		child, ok := node.Child(part)
		if !ok {
			r.logger.Debug().
				Str("layer", string(layer)).
				Str("key", part).
				Str("path", JoinPath(parts)).
				Strs("available", node.Keys()).
				Msg("key not found")
			return "", false
		}
		node = child
	}
	return node.Value()
}

func (r *resolver) markVisited(path string) {
	if r.visited == nil {
		r.visited = make(map[string]bool)
	}
	r.visited[path] = true
}

func (r *resolver) fail(path string, err error) error {
	chain := make([]string, len(r.chain))
	copy(chain, r.chain)
	return &ResolveError{Token: r.token, Path: path, Chain: chain, Err: err}
}
