package chi

import (
	"context"
	"net/http"

	gochi "github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/request"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/result"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
	healthuc "github.com/kailas-cloud/nivosearch/internal/usecase/health"
)

type mockSearch struct {
	searchFn func(ctx context.Context, req *request.Request) (result.Response, error)
	last     *request.Request
}

func (m *mockSearch) Search(ctx context.Context, req *request.Request) (result.Response, error) {
	m.last = req
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return result.Response{}, nil
}

type mockSettings struct {
	optionsFn      func(ctx context.Context) (settings.Layer, error)
	putOptionsFn   func(ctx context.Context, in settings.Layer) (settings.Layer, error)
	presetFn       func(ctx context.Context, id int64) (settings.Preset, error)
	listPresetsFn  func(ctx context.Context) ([]settings.Preset, error)
	createPresetFn func(ctx context.Context, p settings.Preset) (settings.Preset, error)
	putPresetFn    func(ctx context.Context, id int64, p settings.Preset) (settings.Preset, error)
	deletePresetFn func(ctx context.Context, id int64) error
	presetCSSFn    func(ctx context.Context, id int64) (string, error)
}

func (m *mockSettings) Options(ctx context.Context) (settings.Layer, error) {
	if m.optionsFn != nil {
		return m.optionsFn(ctx)
	}
	return settings.Layer{}, nil
}

func (m *mockSettings) PutOptions(ctx context.Context, in settings.Layer) (settings.Layer, error) {
	if m.putOptionsFn != nil {
		return m.putOptionsFn(ctx, in)
	}
	return in, nil
}

func (m *mockSettings) Preset(ctx context.Context, id int64) (settings.Preset, error) {
	if m.presetFn != nil {
		return m.presetFn(ctx, id)
	}
	return settings.Preset{}, domain.ErrNotFound
}

func (m *mockSettings) ListPresets(ctx context.Context) ([]settings.Preset, error) {
	if m.listPresetsFn != nil {
		return m.listPresetsFn(ctx)
	}
	return nil, nil
}

func (m *mockSettings) CreatePreset(ctx context.Context, p settings.Preset) (settings.Preset, error) {
	if m.createPresetFn != nil {
		return m.createPresetFn(ctx, p)
	}
	p.ID = 1
	return p, nil
}

func (m *mockSettings) PutPreset(ctx context.Context, id int64, p settings.Preset) (settings.Preset, error) {
	if m.putPresetFn != nil {
		return m.putPresetFn(ctx, id, p)
	}
	p.ID = id
	return p, nil
}

func (m *mockSettings) DeletePreset(ctx context.Context, id int64) error {
	if m.deletePresetFn != nil {
		return m.deletePresetFn(ctx, id)
	}
	return nil
}

func (m *mockSettings) PresetCSS(ctx context.Context, id int64) (string, error) {
	if m.presetCSSFn != nil {
		return m.presetCSSFn(ctx, id)
	}
	return "", domain.ErrNotFound
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func newTestRouter(search *mockSearch, st *mockSettings, keys ...string) http.Handler {
	srv := NewServer(search, st, &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{healthuc.Catalog: healthuc.CheckOK},
	}}, nil)
	r := gochi.NewRouter()
	srv.Mount(r, keys)
	return r
}
