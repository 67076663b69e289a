package settings

import (
	"encoding/json"
	"fmt"

	domset "github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

// Hash field names of a preset record.
const (
	fieldPostType = "post_type"
	fieldTitle    = "title"
	fieldStatus   = "status"
)

// presetToHash converts a preset to HSET fields; each section is a JSON object.
func presetToHash(p domset.Preset) (map[string]string, error) {
	m := map[string]string{
		fieldPostType: p.PostType,
		fieldTitle:    p.Title,
		fieldStatus:   p.Status,
	}
	for _, name := range domset.Sections {
		sec, ok := p.Sections[name]
		if !ok {
			continue
		}
		raw, err := json.Marshal(map[string]string(sec))
		if err != nil {
			return nil, fmt.Errorf("marshal section %s: %w", name, err)
		}
		m[name] = string(raw)
	}
	return m, nil
}

// presetFromHash hydrates a preset from an HGETALL result. Section values
// may be strings, numbers or bools.
func presetFromHash(id int64, m map[string]string) (domset.Preset, error) {
	p := domset.Preset{
		ID:       id,
		PostType: m[fieldPostType],
		Title:    m[fieldTitle],
		Status:   m[fieldStatus],
		Sections: make(map[string]domset.Layer, len(domset.Sections)),
	}
	for _, name := range domset.Sections {
		raw, ok := m[name]
		if !ok || raw == "" {
			continue
		}
		var values map[string]any
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return domset.Preset{}, fmt.Errorf("unmarshal section %s: %w", name, err)
		}
		p.Sections[name] = domset.LayerFromValues(values)
	}
	return p, nil
}
