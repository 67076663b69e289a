package settings

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	domset "github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

// store is the consumer interface for settings (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// optionPrefix is prepended to canonical keys when stored as site options.
const optionPrefix = "nivo_search_"

// Repo implements usecase/settings.Repository over hashes.
type Repo struct {
	store  store
	prefix string
}

// New creates a settings repository. keyPrefix namespaces every key, e.g. "nivosearch:".
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) optionsKey() string         { return r.prefix + "options" }
func (r *Repo) presetKey(id string) string { return r.prefix + "preset:" + id }
func (r *Repo) presetSeqKey() string       { return r.prefix + "presets:seq" }

// Options returns the raw site-wide options. A missing hash is an empty layer.
func (r *Repo) Options(ctx context.Context) (domset.Layer, error) {
	m, err := r.store.HGetAll(ctx, r.optionsKey())
	if err != nil {
		return nil, fmt.Errorf("hgetall options: %w", err)
	}
	return domset.Layer(m), nil
}

// PutOptions stores canonical keys under their site option names.
func (r *Repo) PutOptions(ctx context.Context, l domset.Layer) error {
	fields := make(map[string]string, len(l))
	for k, v := range l {
		fields[optionPrefix+k] = v
	}
	if err := r.store.HSet(ctx, r.optionsKey(), fields); err != nil {
		return fmt.Errorf("hset options: %w", err)
	}
	return nil
}

// DeleteOptions removes options by canonical key.
func (r *Repo) DeleteOptions(ctx context.Context, keys ...string) error {
	fields := make([]string, len(keys))
	for i, k := range keys {
		fields[i] = optionPrefix + k
	}
	if err := r.store.HDel(ctx, r.optionsKey(), fields...); err != nil {
		return fmt.Errorf("hdel options: %w", err)
	}
	return nil
}

// Preset loads a preset record. The caller decides whether its post type
// makes it usable; a missing record is domain.ErrNotFound.
func (r *Repo) Preset(ctx context.Context, id int64) (domset.Preset, error) {
	if id <= 0 {
		return domset.Preset{}, domain.ErrNotFound
	}
	m, err := r.store.HGetAll(ctx, r.presetKey(strconv.FormatInt(id, 10)))
	if err != nil {
		return domset.Preset{}, fmt.Errorf("hgetall preset %d: %w", id, err)
	}
	if len(m) == 0 {
		return domset.Preset{}, domain.ErrNotFound
	}
	return presetFromHash(id, m)
}

// ListPresets returns every stored preset ordered by id.
func (r *Repo) ListPresets(ctx context.Context) ([]domset.Preset, error) {
	keys, err := r.store.Scan(ctx, r.presetKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan presets: %w", err)
	}
	if len(keys) == 0 {
		return []domset.Preset{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi presets: %w", err)
	}

	presets := make([]domset.Preset, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		id, err := strconv.ParseInt(keys[i][len(r.presetKey("")):], 10, 64)
		if err != nil {
			continue
		}
		p, err := presetFromHash(id, m)
		if err != nil {
			return nil, fmt.Errorf("parse preset %s: %w", keys[i], err)
		}
		presets = append(presets, p)
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, nil
}

// CreatePreset allocates an id and stores the preset.
func (r *Repo) CreatePreset(ctx context.Context, p domset.Preset) (domset.Preset, error) {
	id, err := r.store.Incr(ctx, r.presetSeqKey())
	if err != nil {
		return domset.Preset{}, fmt.Errorf("allocate preset id: %w", err)
	}
	p.ID = id
	if err := r.SavePreset(ctx, p); err != nil {
		return domset.Preset{}, err
	}
	return p, nil
}

// SavePreset replaces a preset record.
func (r *Repo) SavePreset(ctx context.Context, p domset.Preset) error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: preset id must be positive", domain.ErrInvalidSettings)
	}
	fields, err := presetToHash(p)
	if err != nil {
		return err
	}
	key := r.presetKey(strconv.FormatInt(p.ID, 10))
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del preset %d: %w", p.ID, err)
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset preset %d: %w", p.ID, err)
	}
	return nil
}

// DeletePreset removes a preset record.
func (r *Repo) DeletePreset(ctx context.Context, id int64) error {
	key := r.presetKey(strconv.FormatInt(id, 10))
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check preset %d: %w", id, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del preset %d: %w", id, err)
	}
	return nil
}
