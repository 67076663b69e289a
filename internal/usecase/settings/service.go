package settings

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	domset "github.com/kailas-cloud/nivosearch/internal/domain/settings"
	"github.com/kailas-cloud/nivosearch/internal/logger"
)

// Service resolves effective settings and manages stored options and presets.
type Service struct {
	repo     Repository
	defaults domset.Layer
}

// New creates a settings service on top of the compiled-in defaults.
func New(repo Repository) *Service {
	return &Service{repo: repo, defaults: domset.Defaults()}
}

// Resolve merges defaults, site options, the preset and request overrides.
// presetID 0 selects the configured default preset. A preset that is missing,
// unreadable or of the wrong type is skipped and only logged.
func (s *Service) Resolve(ctx context.Context, presetID int64, overrides domset.Layer) (domset.Settings, error) {
	stored, err := s.repo.Options(ctx)
	if err != nil {
		return domset.Settings{}, fmt.Errorf("load options: %w", err)
	}

	if presetID <= 0 {
		presetID = defaultPresetID(stored)
	}

	var presetLayer domset.Layer
	if presetID > 0 {
		p, err := s.loadPreset(ctx, presetID)
		if err != nil {
			logger.FromContext(ctx).Debug("preset ignored",
				zap.Int64("preset_id", presetID),
				zap.Error(err),
			)
		} else {
			presetLayer = p.Layer()
		}
	}

	return domset.Resolve(s.defaults, stored, presetLayer, overrides), nil
}

func (s *Service) loadPreset(ctx context.Context, id int64) (domset.Preset, error) {
	p, err := s.repo.Preset(ctx, id)
	if err != nil {
		return domset.Preset{}, fmt.Errorf("%w: %w", domain.ErrInvalidPreset, err)
	}
	if !p.Valid() {
		return domset.Preset{}, fmt.Errorf("%w: record %d is %q", domain.ErrInvalidPreset, id, p.PostType)
	}
	return p, nil
}

func defaultPresetID(stored domset.Layer) int64 {
	for raw, v := range stored {
		if key, ok := domset.CanonicalKey(raw); ok && key == domset.KeyDefaultPreset {
			return int64(domset.AbsInt(v))
		}
	}
	return 0
}

// Options returns the stored site options keyed by canonical name.
func (s *Service) Options(ctx context.Context) (domset.Layer, error) {
	stored, err := s.repo.Options(ctx)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	out := make(domset.Layer, len(stored))
	for raw, v := range stored {
		if key, ok := domset.CanonicalKey(raw); ok {
			out[key] = v
		}
	}
	return out, nil
}

// PutOptions sanitizes and stores site options.
func (s *Service) PutOptions(ctx context.Context, in domset.Layer) (domset.Layer, error) {
	clean, err := domset.Sanitize(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.PutOptions(ctx, clean); err != nil {
		return nil, fmt.Errorf("put options: %w", err)
	}
	return clean, nil
}

// Preset returns a stored preset. Records of another type are not found.
func (s *Service) Preset(ctx context.Context, id int64) (domset.Preset, error) {
	p, err := s.repo.Preset(ctx, id)
	if err != nil {
		return domset.Preset{}, err
	}
	if !p.Valid() {
		return domset.Preset{}, domain.ErrNotFound
	}
	return p, nil
}

// ListPresets returns all valid presets.
func (s *Service) ListPresets(ctx context.Context) ([]domset.Preset, error) {
	all, err := s.repo.ListPresets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	out := make([]domset.Preset, 0, len(all))
	for _, p := range all {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreatePreset stores a new preset. The first preset created becomes the
// site default.
func (s *Service) CreatePreset(ctx context.Context, p domset.Preset) (domset.Preset, error) {
	clean, err := domset.SanitizePreset(p)
	if err != nil {
		return domset.Preset{}, err
	}
	created, err := s.repo.CreatePreset(ctx, clean)
	if err != nil {
		return domset.Preset{}, fmt.Errorf("create preset: %w", err)
	}

	stored, err := s.repo.Options(ctx)
	if err != nil {
		return created, fmt.Errorf("load options: %w", err)
	}
	if defaultPresetID(stored) == 0 {
		l := domset.Layer{domset.KeyDefaultPreset: fmt.Sprint(created.ID)}
		if err := s.repo.PutOptions(ctx, l); err != nil {
			return created, fmt.Errorf("set default preset: %w", err)
		}
	}
	return created, nil
}

// PutPreset replaces the preset stored under id.
func (s *Service) PutPreset(ctx context.Context, id int64, p domset.Preset) (domset.Preset, error) {
	if id <= 0 {
		return domset.Preset{}, fmt.Errorf("%w: preset id must be positive", domain.ErrInvalidSettings)
	}
	p.ID = id
	clean, err := domset.SanitizePreset(p)
	if err != nil {
		return domset.Preset{}, err
	}
	if err := s.repo.SavePreset(ctx, clean); err != nil {
		return domset.Preset{}, fmt.Errorf("save preset: %w", err)
	}
	return clean, nil
}

// DeletePreset removes a preset and clears the default pointer if it was the default.
func (s *Service) DeletePreset(ctx context.Context, id int64) error {
	if err := s.repo.DeletePreset(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete preset: %w", err)
	}
	stored, err := s.repo.Options(ctx)
	if err != nil {
		return fmt.Errorf("load options: %w", err)
	}
	if defaultPresetID(stored) == id {
		if err := s.repo.DeleteOptions(ctx, domset.KeyDefaultPreset); err != nil {
			return fmt.Errorf("clear default preset: %w", err)
		}
	}
	return nil
}

// PresetCSS renders the scoped stylesheet of a preset.
func (s *Service) PresetCSS(ctx context.Context, id int64) (string, error) {
	p, err := s.Preset(ctx, id)
	if err != nil {
		return "", err
	}
	return domset.PresetCSS(p.ID, p.Style()), nil
}
