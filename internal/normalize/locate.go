// Package normalize finds the crop analysis inside webhook responses whose
// envelope differs between workflow versions.
package normalize

const cropsKey = "crops_analysis"

// Locate returns the object that carries crops_analysis, or a string that
// still has to be parsed, or false when no known envelope matches.
// The first matching rule wins.
func Locate(v any) (any, bool) {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, false
		}
		return Locate(list[0])
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	if out := getMap(m, "output"); out != nil && has(out, cropsKey) {
		return out, true
	}
	if has(m, cropsKey) {
		return m, true
	}
	if data := getMap(m, "data"); data != nil && has(data, cropsKey) {
		return data, true
	}
	if s, ok := getString(m, "text"); ok {
		return s, true
	}
	if s, ok := partsText(m); ok {
		return s, true
	}
	if data := getMap(m, "data"); data != nil {
		if s, ok := getString(data, "text"); ok {
			return s, true
		}
	}
	return nil, false
}

// partsText reads content.parts[0].text.
func partsText(m map[string]any) (string, bool) {
	content := getMap(m, "content")
	if content == nil {
		return "", false
	}
	parts, ok := content["parts"].([]any)
	if !ok || len(parts) == 0 {
		return "", false
	}
	first, ok := parts[0].(map[string]any)
	if !ok {
		return "", false
	}
	return getString(first, "text")
}

func has(m map[string]any, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

func getMap(m map[string]any, key string) map[string]any {
	v, ok := m[key].(map[string]any)
	if !ok {
		return nil
	}
	return v
}

func getString(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}
