package searchbox

import (
	"bytes"
	"html/template"
)

// Messages are the user-facing strings of the rendered states.
type Messages struct {
	NoResults string
	Error     string
}

// DefaultMessages are used when a box is not given its own.
var DefaultMessages = Messages{
	NoResults: "No products found",
	Error:     "Something went wrong. Please try again.",
}

const resultsTemplate = `
{{- define "term" -}}
<li class="nivo-search-{{.Kind}}-item" style="padding: {{.Padding}}px;">
<a href="{{.URL}}" class="nivo-search-{{.Kind}}-link">
<span class="nivo-search-{{.Kind}}-title">{{.Title}}</span>
<span class="nivo-search-{{.Kind}}-count">({{.Count}})</span>
</a>
</li>
{{- end -}}

{{- if .Categories -}}
<div class="nivo-search-categories-section">
<h4 class="nivo-search-section-title">Categories</h4>
<ul class="nivo-search-categories-list">
{{- range .Categories}}{{template "term" .}}{{end -}}
</ul>
</div>
{{- end -}}

{{- if .Tags -}}
<div class="nivo-search-tags-section">
<h4 class="nivo-search-section-title">Tags</h4>
<ul class="nivo-search-tags-list">
{{- range .Tags}}{{template "term" .}}{{end -}}
</ul>
</div>
{{- end -}}

{{- if .Products -}}
<div class="nivo-search-products-section">
{{- if or .Categories .Tags}}
<h4 class="nivo-search-section-title">Products</h4>
{{- end}}
<ul class="nivo-search-results-list">
{{- range .Products}}
<li class="nivo-search-result-item" style="padding: {{.Padding}}px;">
<a href="{{.URL}}" class="nivo-search-product-link">
{{- if .Image}}
<img src="{{.Image}}" alt="{{.Alt}}" class="nivo-search-product-image">
{{- end}}
<div class="nivo-search-product-info">
<div class="nivo-search-product-title-row">
<span class="nivo-search-product-title">{{.Title}}{{if .SKU}} <strong>(SKU: {{.SKU}})</strong>{{end}}</span>
{{- if .Price}}
<span class="nivo-search-product-price">{{.Price}}</span>
{{- end}}
</div>
{{- if .Description}}
<span class="nivo-search-product-description">{{.Description}}</span>
{{- end}}
</div>
</a>
</li>
{{- end}}
</ul>
</div>
{{- end -}}
`

var resultsTmpl = template.Must(template.New("results").Parse(resultsTemplate))

type termView struct {
	Kind    string
	URL     string
	Title   template.HTML
	Count   int
	Padding int
}

type productView struct {
	URL         string
	Image       string
	Alt         string
	Title       template.HTML
	SKU         template.HTML
	Price       template.HTML
	Description template.HTML
	Padding     int
}

type resultsView struct {
	Categories []termView
	Tags       []termView
	Products   []productView
}

// Render builds the results markup. Sections render in the fixed order
// categories, tags, products. An empty response renders the no-results
// message.
func Render(resp *Response, query string, msgs Messages) (string, error) {
	if resp == nil || resp.Empty() {
		return RenderMessage("nivo-search-no-results-message", msgs.NoResults), nil
	}

	d := resp.Settings
	padding := d.ResultsPadding
	if padding <= 0 {
		padding = DefaultResultsPadding
	}

	view := resultsView{
		Categories: termViews("category", resp.Categories, query, padding),
		Tags:       termViews("tag", resp.Tags, query, padding),
		Products:   make([]productView, 0, len(resp.Products)),
	}
	for _, p := range resp.Products {
		pv := productView{
			URL:     p.URL,
			Alt:     p.Title,
			Title:   template.HTML(Highlight(p.Title, query)), //nolint:gosec // escaped by Highlight
			Padding: padding,
		}
		if d.ShowImages {
			pv.Image = p.Image
		}
		if d.ShowSKU {
			pv.SKU = template.HTML(Highlight(p.SKU, query)) //nolint:gosec // escaped by Highlight
		}
		if d.ShowPrice {
			// Price markup is pre-rendered by the store and trusted.
			pv.Price = template.HTML(p.Price) //nolint:gosec // trusted store markup
		}
		if d.ShowDescription {
			pv.Description = template.HTML(Highlight(p.ShortDescription, query)) //nolint:gosec // escaped by Highlight
		}
		view.Products = append(view.Products, pv)
	}

	var buf bytes.Buffer
	if err := resultsTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func termViews(kind string, terms []Term, query string, padding int) []termView {
	out := make([]termView, 0, len(terms))
	for _, t := range terms {
		out = append(out, termView{
			Kind:    kind,
			URL:     t.URL,
			Title:   template.HTML(Highlight(t.Title, query)), //nolint:gosec // escaped by Highlight
			Count:   t.Count,
			Padding: padding,
		})
	}
	return out
}

// RenderMessage renders a single escaped paragraph.
func RenderMessage(class, msg string) string {
	return `<p class="` + template.HTMLEscapeString(class) + `">` + template.HTMLEscapeString(msg) + `</p>`
}
