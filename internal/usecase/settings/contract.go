package settings

import (
	"context"

	domset "github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

// Repository defines the storage contract for site options and presets.
type Repository interface {
	Options(ctx context.Context) (domset.Layer, error)
	PutOptions(ctx context.Context, l domset.Layer) error
	DeleteOptions(ctx context.Context, keys ...string) error
	Preset(ctx context.Context, id int64) (domset.Preset, error)
	ListPresets(ctx context.Context) ([]domset.Preset, error)
	CreatePreset(ctx context.Context, p domset.Preset) (domset.Preset, error)
	SavePreset(ctx context.Context, p domset.Preset) error
	DeletePreset(ctx context.Context, id int64) error
}
