package chi

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/kailas-cloud/nivosearch/internal/domain/search/request"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/result"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

// Form fields that are never treated as setting overrides.
var reservedFields = map[string]struct{}{
	"s":         {},
	"query":     {},
	"preset_id": {},
	"action":    {},
	"security":  {},
	"nonce":     {},
}

type searchBody struct {
	S         string         `json:"s"`
	Query     string         `json:"query"`
	PresetID  any            `json:"preset_id"`
	Overrides map[string]any `json:"overrides"`
}

// Search handles POST /api/v1/search and POST /wc-ajax/nivo_search.
// Accepts form encoded fields or a JSON body.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	req, err := parseSearchRequest(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(resp.Total))
	writeSuccess(w, http.StatusOK, responseToDTO(resp))
}

func parseSearchRequest(r *http.Request) (request.Request, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return parseJSONSearch(r)
	}
	return parseFormSearch(r)
}

func parseFormSearch(r *http.Request) (request.Request, error) {
	if err := r.ParseForm(); err != nil {
		return request.Request{}, badRequest("invalid form body")
	}
	q := r.Form.Get("s")
	if q == "" {
		q = r.Form.Get("query")
	}

	overrides := settings.Layer{}
	for k, vals := range r.Form {
		if _, reserved := reservedFields[k]; reserved || len(vals) == 0 {
			continue
		}
		overrides[k] = vals[0]
	}
	return request.New(q, parsePresetID(r.Form.Get("preset_id")), overrides)
}

func parseJSONSearch(r *http.Request) (request.Request, error) {
	var body searchBody
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return request.Request{}, badRequest("invalid JSON body")
	}
	q := body.S
	if q == "" {
		q = body.Query
	}
	return request.New(q, parsePresetID(fmt.Sprint(body.PresetID)), settings.LayerFromValues(body.Overrides))
}

// parsePresetID treats anything that is not a positive integer as "no preset".
func parsePresetID(v string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

type productDTO struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	Image            string `json:"image,omitempty"`
	Price            string `json:"price"`
	SKU              string `json:"sku,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
}

type termDTO struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Count int    `json:"count"`
	Type  string `json:"type,omitempty"`
}

type appliedDTO struct {
	ShowImages      int `json:"show_images"`
	ShowPrice       int `json:"show_price"`
	ShowSKU         int `json:"show_sku"`
	ShowDescription int `json:"show_description"`
	MinChars        int `json:"min_chars"`
	Delay           int `json:"delay"`
	Limit           int `json:"limit"`
	ResultsPadding  int `json:"results_padding"`
}

type searchResponseDTO struct {
	Categories []termDTO    `json:"categories"`
	Tags       []termDTO    `json:"tags"`
	Products   []productDTO `json:"products"`
	Settings   appliedDTO   `json:"settings"`
}

func responseToDTO(r result.Response) searchResponseDTO {
	out := searchResponseDTO{
		Categories: termsToDTO(r.Categories),
		Tags:       termsToDTO(r.Tags),
		Products:   make([]productDTO, len(r.Products)),
		Settings: appliedDTO{
			ShowImages:      r.Settings.ShowImages,
			ShowPrice:       r.Settings.ShowPrice,
			ShowSKU:         r.Settings.ShowSKU,
			ShowDescription: r.Settings.ShowDescription,
			MinChars:        r.Settings.MinChars,
			Delay:           r.Settings.Delay,
			Limit:           r.Settings.Limit,
			ResultsPadding:  r.Settings.ResultsPadding,
		},
	}
	for i, p := range r.Products {
		out.Products[i] = productDTO{
			ID:               p.ID,
			Title:            p.Title,
			URL:              p.URL,
			Image:            p.Image,
			Price:            p.Price,
			SKU:              p.SKU,
			ShortDescription: p.ShortDescription,
		}
	}
	return out
}

func termsToDTO(terms []result.Term) []termDTO {
	out := make([]termDTO, len(terms))
	for i, t := range terms {
		out[i] = termDTO{ID: t.ID, Title: t.Title, URL: t.URL, Count: t.Count, Type: t.Type}
	}
	return out
}
