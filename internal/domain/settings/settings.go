// Package settings holds the typed search configuration and the layered
// merge that produces it from defaults, site options, presets and request
// overrides.
package settings

// Field is a product attribute matched by the text query.
type Field string

// Searchable product fields.
const (
	FieldTitle   Field = "title"
	FieldContent Field = "content"
	FieldExcerpt Field = "excerpt"
	FieldSKU     Field = "sku"
)

// fieldKeys binds search fields to their flag keys, in planning order.
var fieldKeys = []struct {
	field Field
	key   string
}{
	{FieldTitle, KeySearchInTitle},
	{FieldContent, KeySearchInContent},
	{FieldExcerpt, KeySearchInExcerpt},
	{FieldSKU, KeySearchInSKU},
}

// Bounds for the clamped numeric settings.
const (
	MinLimit    = 1
	MaxLimit    = 50
	MinMinChars = 1
	MaxMinChars = 5
	MaxDelay    = 2000
)

// PresetPostType is the record type a preset id must resolve to.
const PresetPostType = "nivo_search_preset"

// Display controls which product attributes are rendered.
type Display struct {
	ShowImage       bool
	ShowPrice       bool
	ShowSKU         bool
	ShowDescription bool
}

// Settings is the fully merged configuration for one search request.
type Settings struct {
	Enabled           bool
	Fields            []Field
	IncludeCategories bool
	IncludeTags       bool
	ExcludeOutOfStock bool
	Limit             int
	MinChars          int
	Delay             int
	ExcludedIDs       []int64
	Display           Display
	Placeholder       string
	// Style holds presentation values keyed by style key. Opaque to search.
	Style map[string]string
}

// HasField reports whether f is among the searched fields.
func (s Settings) HasField(f Field) bool {
	for _, x := range s.Fields {
		if x == f {
			return true
		}
	}
	return false
}

// StyleInt returns an integer style value or def when unset or malformed.
func (s Settings) StyleInt(key string, def int) int {
	v, ok := s.Style[key]
	if !ok {
		return def
	}
	n, ok := ParseInt(v)
	if !ok {
		return def
	}
	return n
}

// Defaults returns the compiled-in bottom layer.
func Defaults() Layer {
	return Layer{
		KeyEnabled:           "1",
		KeyLimit:             "10",
		KeyMinChars:          "2",
		KeyDelay:             "200",
		KeyPlaceholder:       "Search products...",
		KeySearchInTitle:     "1",
		KeySearchInContent:   "0",
		KeySearchInExcerpt:   "0",
		KeySearchInSKU:       "0",
		KeySearchCategories:  "0",
		KeySearchTags:        "0",
		KeyExcludeOutOfStock: "0",
		KeyShowImages:        "1",
		KeyShowPrice:         "1",
		KeyShowSKU:           "0",
		KeyShowDescription:   "0",

		"bar_width":             "600",
		"bar_height":            "50",
		"border_width":          "1",
		"border_color":          "#ddd",
		"border_radius":         "5",
		"bg_color":              "#ffffff",
		"text_color":            "#333333",
		"results_text_color":    "#333333",
		"results_width":         "600",
		"results_border_width":  "1",
		"results_border_color":  "#ddd",
		"results_border_radius": "4",
		"results_bg_color":      "#ffffff",
		KeyResultsPadding:       "10",
	}
}
