package settings

import (
	"context"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	domset "github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

// mockRepo is an in-memory Repository with optional error injection.
type mockRepo struct {
	options    domset.Layer
	presets    map[int64]domset.Preset
	nextID     int64
	optionsErr error
	presetErr  error
	deleted    []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{options: domset.Layer{}, presets: map[int64]domset.Preset{}}
}

func (m *mockRepo) Options(_ context.Context) (domset.Layer, error) {
	if m.optionsErr != nil {
		return nil, m.optionsErr
	}
	out := domset.Layer{}
	for k, v := range m.options {
		out[k] = v
	}
	return out, nil
}

func (m *mockRepo) PutOptions(_ context.Context, l domset.Layer) error {
	for k, v := range l {
		m.options["nivo_search_"+k] = v
	}
	return nil
}

func (m *mockRepo) DeleteOptions(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.options, "nivo_search_"+k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *mockRepo) Preset(_ context.Context, id int64) (domset.Preset, error) {
	if m.presetErr != nil {
		return domset.Preset{}, m.presetErr
	}
	p, ok := m.presets[id]
	if !ok {
		return domset.Preset{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) ListPresets(_ context.Context) ([]domset.Preset, error) {
	out := make([]domset.Preset, 0, len(m.presets))
	for _, p := range m.presets {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockRepo) CreatePreset(_ context.Context, p domset.Preset) (domset.Preset, error) {
	m.nextID++
	p.ID = m.nextID
	m.presets[p.ID] = p
	return p, nil
}

func (m *mockRepo) SavePreset(_ context.Context, p domset.Preset) error {
	m.presets[p.ID] = p
	return nil
}

func (m *mockRepo) DeletePreset(_ context.Context, id int64) error {
	if _, ok := m.presets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.presets, id)
	return nil
}

func validPreset(id int64, sections map[string]domset.Layer) domset.Preset {
	return domset.Preset{ID: id, PostType: domset.PresetPostType, Status: "publish", Sections: sections}
}
