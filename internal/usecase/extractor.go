package usecase

import "sort"

// listAliases are the top-level keys the model uses for the candidate array,
// checked in order.
var listAliases = []string{"alternatives", "products", "produtos"}

// identifyingFields mark an object as a plausible product candidate when it
// is found by deep traversal rather than under a known key.
var identifyingFields = []string{"name", "nome", "produto", "title"}

// maxTraversalDepth bounds the deep scan against pathological nesting.
const maxTraversalDepth = 6

// extractProducts pulls a flat list of raw candidate objects out of an
// arbitrarily shaped AI JSON document. It tolerates nil, primitives and
// malformed sub-structure, returning a (possibly empty) list and never
// failing.
func extractProducts(v interface{}) []map[string]interface{} {
	switch doc := v.(type) {
	case map[string]interface{}:
		for _, key := range listAliases {
			if arr, ok := doc[key].([]interface{}); ok {
				return objectElements(arr)
			}
		}
		return collectDeep(doc, 0)
	case []interface{}:
		return objectElements(doc)
	default:
		return nil
	}
}

func objectElements(arr []interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	for _, el := range arr {
		if obj, ok := el.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}

// collectDeep walks nested object values depth-first, collecting every array
// whose elements are all objects and keeping the objects that carry at least
// one identifying field. Keys are visited in sorted order so extraction order
// is deterministic.
func collectDeep(doc map[string]interface{}, depth int) []map[string]interface{} {
	if depth >= maxTraversalDepth {
		return nil
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []map[string]interface{}
	for _, key := range keys {
		switch value := doc[key].(type) {
		case []interface{}:
			if !allObjects(value) {
				continue
			}
			for _, el := range value {
				obj := el.(map[string]interface{})
				if hasIdentifyingField(obj) {
					out = append(out, obj)
				}
			}
		case map[string]interface{}:
			out = append(out, collectDeep(value, depth+1)...)
		}
	}
	return out
}

func allObjects(arr []interface{}) bool {
	if len(arr) == 0 {
		return false
	}
	for _, el := range arr {
		if _, ok := el.(map[string]interface{}); !ok {
			return false
		}
	}
	return true
}

func hasIdentifyingField(obj map[string]interface{}) bool {
	for _, field := range identifyingFields {
		if _, ok := obj[field]; ok {
			return true
		}
	}
	return false
}
