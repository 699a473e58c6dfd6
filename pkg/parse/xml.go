package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// XML parses the file and searches breadth-first for the first depth at
// which tag occurs; every matched subtree is converted to nested maps and
// the value under tag returned. An empty result means the tag never occurs.
func XML(path, tag string) ([]any, error) {
	root, err := readRoot(path)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		v, err := XMLToMap(path)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}

	var matched []*etree.Element
	branches := []*etree.Element{root}
	for len(branches) > 0 && len(matched) == 0 {
		var deeper []*etree.Element
		for _, b := range branches {
			if found := b.SelectElements(tag); len(found) > 0 {
				matched = append(matched, found...)
			} else {
				deeper = append(deeper, b.ChildElements()...)
			}
		}
		branches = deeper
	}

	out := make([]any, 0, len(matched))
	for _, e := range matched {
		converted := toDict(toList(e))
		if m, ok := converted.(map[string]any); ok {
			out = append(out, m[tag])
		} else {
			out = append(out, converted)
		}
	}
	return out, nil
}

// XMLToMap converts the whole document to nested maps.
func XMLToMap(path string) (any, error) {
	root, err := readRoot(path)
	if err != nil {
		return nil, err
	}
	return toDict(toList(root)), nil
}

func readRoot(path string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("parse xml %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse xml %s: no root element", path)
	}
	return root, nil
}

// toList renders an element as [tag, text] for text-only elements, and
// [tag, [child...]] otherwise.
func toList(e *etree.Element) []any {
	if text := strings.TrimSpace(e.Text()); text != "" {
		return []any{e.Tag, text}
	}
	kids := e.ChildElements()
	inner := make([]any, 0, len(kids))
	for _, k := range kids {
		inner = append(inner, toList(k))
	}
	return []any{e.Tag, inner}
}

// toDict converts the toList form to maps with a positional heuristic: a
// [tag, text] pair becomes a single-key map; a singleton list unwraps; a
// run of sibling maps whose first two keys match collapses into one key
// mapped to the list of values, while distinct keys build a plain map. The
// collapse rule is a heuristic, ambiguous for longer mixed-key runs, kept
// for compatibility with the data this was written against.
func toDict(v any) any {
	switch l := v.(type) {
	case string:
		return l
	case []any:
		if len(l) == 0 {
			return ""
		}
		switch first := l[0].(type) {
		case string:
			if len(l) < 2 {
				return map[string]any{first: ""}
			}
			return map[string]any{first: toDict(l[1])}
		case []any:
			if len(l) == 1 {
				return toDict(first)
			}
			part := make([]any, len(l))
			for i := range l {
				part[i] = toDict(l[i])
			}
			if keys, vals, ok := splitFirstEntries(part); ok && len(keys) > 1 {
				if keys[0] != keys[1] {
					d := make(map[string]any, len(keys))
					for i := range keys {
						d[keys[i]] = vals[i]
					}
					return d
				}
				return map[string]any{keys[0]: vals}
			}
			return part
		}
	}
	return ""
}

// splitFirstEntries extracts the first key and value of each map in part;
// ok is false unless every element is a map.
func splitFirstEntries(part []any) ([]string, []any, bool) {
	keys := make([]string, 0, len(part))
	vals := make([]any, 0, len(part))
	for _, p := range part {
		m, ok := p.(map[string]any)
		if !ok || len(m) == 0 {
			return nil, nil, false
		}
		k := firstKey(m)
		keys = append(keys, k)
		vals = append(vals, m[k])
	}
	return keys, vals, true
}

func firstKey(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}
