package settings

import "strings"

// Canonical setting keys. Stored options, preset sections and request
// overrides are normalized onto these names before merging.
const (
	KeyEnabled           = "enable_ajax"
	KeyLimit             = "limit"
	KeyMinChars          = "min_chars"
	KeyDelay             = "delay"
	KeyPlaceholder       = "placeholder"
	KeySearchInTitle     = "search_in_title"
	KeySearchInContent   = "search_in_content"
	KeySearchInExcerpt   = "search_in_excerpt"
	KeySearchInSKU       = "search_in_sku"
	KeySearchCategories  = "search_product_categories"
	KeySearchTags        = "search_product_tags"
	KeyExcludeOutOfStock = "exclude_out_of_stock"
	KeyExcludedProducts  = "excluded_products"
	KeyShowImages        = "show_images"
	KeyShowPrice         = "show_price"
	KeyShowSKU           = "show_sku"
	KeyShowDescription   = "show_description"
	KeyDefaultPreset     = "default_preset_created"
	KeyResultsPadding    = "results_padding"
)

// optionPrefix is carried by every site-wide option name.
const optionPrefix = "nivo_search_"

// aliases maps legacy or site-option spellings onto canonical keys.
var aliases = map[string]string{
	"in_categories":        KeySearchCategories,
	"in_tags":              KeySearchTags,
	"search_in_categories": KeySearchCategories,
	"search_in_tags":       KeySearchTags,
	"placeholder_text":     KeyPlaceholder,
	"exclude":              KeyExcludedProducts,
	"min_length":           KeyMinChars,
}

// Kind classifies how a setting value is coerced and sanitized.
type Kind int

const (
	// KindText is free text.
	KindText Kind = iota
	// KindBool is a checkbox-like flag stored as "1"/"0".
	KindBool
	// KindInt is a non-negative integer.
	KindInt
	// KindColor is a hex color.
	KindColor
	// KindIDList is a comma-separated list of product ids.
	KindIDList
)

// kinds lists every key the service understands.
var kinds = map[string]Kind{
	KeyEnabled:           KindBool,
	KeyLimit:             KindInt,
	KeyMinChars:          KindInt,
	KeyDelay:             KindInt,
	KeyPlaceholder:       KindText,
	KeySearchInTitle:     KindBool,
	KeySearchInContent:   KindBool,
	KeySearchInExcerpt:   KindBool,
	KeySearchInSKU:       KindBool,
	KeySearchCategories:  KindBool,
	KeySearchTags:        KindBool,
	KeyExcludeOutOfStock: KindBool,
	KeyExcludedProducts:  KindIDList,
	KeyShowImages:        KindBool,
	KeyShowPrice:         KindBool,
	KeyShowSKU:           KindBool,
	KeyShowDescription:   KindBool,
	KeyDefaultPreset:     KindInt,

	"bar_width":             KindInt,
	"bar_height":            KindInt,
	"border_width":          KindInt,
	"border_color":          KindColor,
	"border_radius":         KindInt,
	"bg_color":              KindColor,
	"text_color":            KindColor,
	"results_text_color":    KindColor,
	"results_width":         KindInt,
	"results_border_width":  KindInt,
	"results_border_color":  KindColor,
	"results_border_radius": KindInt,
	"results_bg_color":      KindColor,
	KeyResultsPadding:       KindInt,
}

// styleKeys are passed through to the renderer without interpretation.
var styleKeys = []string{
	"bar_width", "bar_height", "border_width", "border_color", "border_radius",
	"bg_color", "text_color", "results_text_color", "results_width",
	"results_border_width", "results_border_color", "results_border_radius",
	"results_bg_color", KeyResultsPadding,
}

// overridable are the keys a single request may override. Site policy
// keys (feature flag, exclusions, default preset) are not in the list.
var overridable = map[string]bool{
	KeyLimit:             true,
	KeyMinChars:          true,
	KeySearchInTitle:     true,
	KeySearchInContent:   true,
	KeySearchInExcerpt:   true,
	KeySearchInSKU:       true,
	KeySearchCategories:  true,
	KeySearchTags:        true,
	KeyExcludeOutOfStock: true,
	KeyShowImages:        true,
	KeyShowPrice:         true,
	KeyShowSKU:           true,
	KeyShowDescription:   true,
}

// CanonicalKey maps a raw key (site option name, legacy preset key or
// canonical key) to its canonical name. ok is false for unknown keys.
func CanonicalKey(raw string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(raw))
	k = strings.TrimPrefix(k, optionPrefix)
	if a, ok := aliases[k]; ok {
		k = a
	}
	_, ok := kinds[k]
	return k, ok
}

// KindOf returns the kind of a canonical key.
func KindOf(key string) (Kind, bool) {
	k, ok := kinds[key]
	return k, ok
}

// IsOverridable reports whether a request may override the canonical key.
func IsOverridable(key string) bool {
	return overridable[key]
}
