package settings

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Layer is one source of raw setting values keyed by raw or canonical name.
type Layer map[string]string

// Merge returns a copy of l with other applied on top.
func (l Layer) Merge(other Layer) Layer {
	out := make(Layer, len(l)+len(other))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// LayerFromValues flattens decoded JSON values into a Layer. Bools become
// "1"/"0", numbers their shortest decimal form, number lists CSV. Nested
// objects and nulls are skipped.
func LayerFromValues(m map[string]any) Layer {
	out := make(Layer, len(m))
	for k, v := range m {
		if s, ok := flatten(v); ok {
			out[k] = s
		}
	}
	return out
}

func flatten(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case json.Number:
		return x.String(), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := flatten(e); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	}
	return "", false
}

// Resolve merges the layers, later wins, into a typed Settings. Unknown
// keys and unparseable values are ignored so the lower layer stays.
// Overrides are restricted to the per-request whitelist. Excluded product
// ids accumulate across layers.
func Resolve(defaults, stored, preset, overrides Layer) Settings {
	m := newMerger()
	m.apply(defaults, false)
	m.apply(stored, false)
	m.apply(preset, false)
	m.apply(overrides, true)
	return m.settings()
}

type merger struct {
	bools    map[string]bool
	ints     map[string]int
	texts    map[string]string
	style    map[string]string
	excluded []int64
	seen     map[int64]struct{}
}

func newMerger() *merger {
	return &merger{
		bools: make(map[string]bool),
		ints:  make(map[string]int),
		texts: make(map[string]string),
		style: make(map[string]string),
		seen:  make(map[int64]struct{}),
	}
}

// apply sets aliased spellings first so a canonical key in the same layer wins.
func (m *merger) apply(l Layer, restricted bool) {
	raws := make([]string, 0, len(l))
	for raw := range l {
		raws = append(raws, raw)
	}
	sort.Strings(raws)
	for _, canonicalPass := range []bool{false, true} {
		for _, raw := range raws {
			key, ok := CanonicalKey(raw)
			if !ok || (key == raw) != canonicalPass {
				continue
			}
			if restricted && !IsOverridable(key) {
				continue
			}
			m.set(key, l[raw])
		}
	}
}

func (m *merger) set(key, v string) {
	kind, _ := KindOf(key)
	switch kind {
	case KindBool:
		if b, ok := ParseBool(v); ok {
			m.bools[key] = b
		}
	case KindInt:
		if n, ok := ParseInt(v); ok {
			m.ints[key] = n
			if isStyle(key) {
				m.style[key] = strconv.Itoa(n)
			}
		}
	case KindColor:
		if c, ok := SanitizeHexColor(v); ok {
			m.style[key] = c
		}
	case KindIDList:
		for _, id := range ParseIDs(v) {
			if _, dup := m.seen[id]; dup {
				continue
			}
			m.seen[id] = struct{}{}
			m.excluded = append(m.excluded, id)
		}
	case KindText:
		m.texts[key] = strings.TrimSpace(v)
	}
}

func (m *merger) settings() Settings {
	s := Settings{
		Enabled:           m.bools[KeyEnabled],
		IncludeCategories: m.bools[KeySearchCategories],
		IncludeTags:       m.bools[KeySearchTags],
		ExcludeOutOfStock: m.bools[KeyExcludeOutOfStock],
		Limit:             clamp(m.intOr(KeyLimit, 10), MinLimit, MaxLimit),
		MinChars:          clamp(m.intOr(KeyMinChars, 2), MinMinChars, MaxMinChars),
		Delay:             clamp(m.intOr(KeyDelay, 200), 0, MaxDelay),
		ExcludedIDs:       m.excluded,
		Placeholder:       m.texts[KeyPlaceholder],
		Display: Display{
			ShowImage:       m.bools[KeyShowImages],
			ShowPrice:       m.bools[KeyShowPrice],
			ShowSKU:         m.bools[KeyShowSKU],
			ShowDescription: m.bools[KeyShowDescription],
		},
		Style: m.style,
	}
	for _, fk := range fieldKeys {
		if m.bools[fk.key] {
			s.Fields = append(s.Fields, fk.field)
		}
	}
	if len(s.Fields) == 0 {
		s.Fields = []Field{FieldTitle}
	}
	return s
}

func (m *merger) intOr(key string, def int) int {
	if n, ok := m.ints[key]; ok {
		return n
	}
	return def
}

func isStyle(key string) bool {
	for _, k := range styleKeys {
		if k == key {
			return true
		}
	}
	return false
}
