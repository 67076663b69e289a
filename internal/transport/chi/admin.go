package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

type presetDTO struct {
	ID       int64             `json:"id"`
	Title    string            `json:"title"`
	Status   string            `json:"status"`
	Generale map[string]string `json:"generale"`
	Query    map[string]string `json:"query"`
	Display  map[string]string `json:"display"`
	Style    map[string]string `json:"style"`
}

type presetBody struct {
	Title    string         `json:"title"`
	Status   string         `json:"status"`
	Generale map[string]any `json:"generale"`
	Query    map[string]any `json:"query"`
	Display  map[string]any `json:"display"`
	Style    map[string]any `json:"style"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

func presetIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(gochi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("preset id must be a positive integer")
	}
	return id, nil
}

// GetOptions handles GET /api/v1/options.
func (s *Server) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.settings.Options(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string(opts))
}

// PutOptions handles PUT /api/v1/options. Only the given keys change.
func (s *Server) PutOptions(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	stored, err := s.settings.PutOptions(r.Context(), settings.LayerFromValues(body))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string(stored))
}

// ListPresets handles GET /api/v1/presets.
func (s *Server) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.settings.ListPresets(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := make([]presetDTO, len(presets))
	for i, p := range presets {
		items[i] = presetToDTO(p)
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(items)))
	writeSuccess(w, http.StatusOK, items)
}

// CreatePreset handles POST /api/v1/presets.
func (s *Server) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var body presetBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	p, err := s.settings.CreatePreset(r.Context(), presetFromBody(body))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/presets/"+strconv.FormatInt(p.ID, 10))
	writeSuccess(w, http.StatusCreated, presetToDTO(p))
}

// GetPreset handles GET /api/v1/presets/{id}.
func (s *Server) GetPreset(w http.ResponseWriter, r *http.Request) {
	id, err := presetIDParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	p, err := s.settings.Preset(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, presetToDTO(p))
}

// PutPreset handles PUT /api/v1/presets/{id}.
func (s *Server) PutPreset(w http.ResponseWriter, r *http.Request) {
	id, err := presetIDParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var body presetBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	p, err := s.settings.PutPreset(r.Context(), id, presetFromBody(body))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, presetToDTO(p))
}

// DeletePreset handles DELETE /api/v1/presets/{id}.
func (s *Server) DeletePreset(w http.ResponseWriter, r *http.Request) {
	id, err := presetIDParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.settings.DeletePreset(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PresetStyle handles GET /api/v1/presets/{id}/style.css.
func (s *Server) PresetStyle(w http.ResponseWriter, r *http.Request) {
	id, err := presetIDParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	css, err := s.settings.PresetCSS(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(css))
}

func presetFromBody(b presetBody) settings.Preset {
	sections := make(map[string]settings.Layer, len(settings.Sections))
	add := func(name string, v map[string]any) {
		if v != nil {
			sections[name] = settings.LayerFromValues(v)
		}
	}
	add(settings.SectionGenerale, b.Generale)
	add(settings.SectionQuery, b.Query)
	add(settings.SectionDisplay, b.Display)
	add(settings.SectionStyle, b.Style)
	return settings.Preset{Title: b.Title, Status: b.Status, Sections: sections}
}

func presetToDTO(p settings.Preset) presetDTO {
	section := func(name string) map[string]string {
		out := map[string]string{}
		for k, v := range p.Sections[name] {
			out[k] = v
		}
		return out
	}
	return presetDTO{
		ID:       p.ID,
		Title:    p.Title,
		Status:   p.Status,
		Generale: section(settings.SectionGenerale),
		Query:    section(settings.SectionQuery),
		Display:  section(settings.SectionDisplay),
		Style:    section(settings.SectionStyle),
	}
}
