package chi

import (
	"context"

	"github.com/kailas-cloud/nivosearch/internal/domain/search/request"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/result"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
	healthuc "github.com/kailas-cloud/nivosearch/internal/usecase/health"
)

// SearchService answers live search requests.
type SearchService interface {
	Search(ctx context.Context, req *request.Request) (result.Response, error)
}

// SettingsService manages site options and presets.
type SettingsService interface {
	Options(ctx context.Context) (settings.Layer, error)
	PutOptions(ctx context.Context, in settings.Layer) (settings.Layer, error)
	Preset(ctx context.Context, id int64) (settings.Preset, error)
	ListPresets(ctx context.Context) ([]settings.Preset, error)
	CreatePreset(ctx context.Context, p settings.Preset) (settings.Preset, error)
	PutPreset(ctx context.Context, id int64, p settings.Preset) (settings.Preset, error)
	DeletePreset(ctx context.Context, id int64) error
	PresetCSS(ctx context.Context, id int64) (string, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
