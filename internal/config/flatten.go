package config

import (
	"sort"
	"strings"
)

// secretKeys are the dotted keys masked by MaskSecrets.
var secretKeys = map[string]bool{
	"admin_code": true,
}

func IsSecretKey(key string) bool {
	return secretKeys[key]
}

// Flatten turns nested maps into dotted keys:
// {"http": {"listen": ":3000"}} becomes {"http.listen": ":3000"}.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, v := range node {
			if prefix != "" {
				k = prefix + "." + k
			}
			if child, ok := v.(map[string]any); ok {
				walk(k, child)
				continue
			}
			out[k] = v
		}
	}
	walk("", m)
	return out
}

// Unflatten reverses Flatten. A scalar sitting where a nested key needs a
// map is replaced by the map; shallow keys are applied first so the result
// does not depend on map order.
func Unflatten(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.Count(keys[i], ".") < strings.Count(keys[j], ".")
	})

	root := make(map[string]any)
	for _, key := range keys {
		v := flat[key]
		node := root
		for {
			head, rest, nested := strings.Cut(key, ".")
			if !nested {
				node[head] = v
				break
			}
			child, ok := node[head].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[head] = child
			}
			node, key = child, rest
		}
	}
	return root
}

// MaskSecrets returns a copy of flat with secret values reduced to
// "***" plus their last four characters. Empty values stay empty.
func MaskSecrets(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		s, ok := v.(string)
		if !secretKeys[k] || !ok || s == "" {
			out[k] = v
			continue
		}
		if len(s) > 4 {
			s = s[len(s)-4:]
		}
		out[k] = "***" + s
	}
	return out
}
