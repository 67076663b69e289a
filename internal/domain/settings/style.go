package settings

import (
	"strconv"
	"strings"
)

// PresetCSS renders the scoped stylesheet for a preset's style section.
// Values that are missing are omitted; colors that fail validation are
// dropped rather than emitted.
func PresetCSS(presetID int64, style Layer) string {
	var b strings.Builder
	sel := ".nivo-preset-" + strconv.FormatInt(presetID, 10)

	px := func(key string) (string, bool) {
		v, ok := style[key]
		if !ok {
			return "", false
		}
		return strconv.Itoa(AbsInt(v)) + "px", true
	}
	color := func(key string) (string, bool) {
		v, ok := style[key]
		if !ok {
			return "", false
		}
		return SanitizeHexColor(v)
	}

	if w, ok := px("bar_width"); ok {
		b.WriteString(sel + " .nivo-search-form-wrapper{max-width:" + w + "}")
	}

	var input []string
	if h, ok := px("bar_height"); ok {
		input = append(input, "height:"+h)
	}
	if w, ok := px("border_width"); ok {
		if c, ok := color("border_color"); ok {
			input = append(input, "border:"+w+" solid "+c)
		}
	}
	if r, ok := px("border_radius"); ok {
		input = append(input, "border-radius:"+r)
	}
	if c, ok := color("bg_color"); ok {
		input = append(input, "background-color:"+c)
	}
	if c, ok := color("text_color"); ok {
		input = append(input, "color:"+c)
	}
	if len(input) > 0 {
		b.WriteString(sel + " .nivo-search-wrapper input[type=search].nivo-search-product-search{" +
			strings.Join(input, ";") + "}")
	}

	var results []string
	if w, ok := px("results_width"); ok {
		results = append(results, "max-width:"+w)
	}
	if w, ok := px("results_border_width"); ok {
		if c, ok := color("results_border_color"); ok {
			results = append(results, "border:"+w+" solid "+c)
		}
	}
	if r, ok := px("results_border_radius"); ok {
		results = append(results, "border-radius:"+r)
	}
	if c, ok := color("results_bg_color"); ok {
		results = append(results, "background-color:"+c)
	}
	if p, ok := px(KeyResultsPadding); ok {
		results = append(results, "padding:"+p)
	}
	if c, ok := color("results_text_color"); ok {
		b.WriteString(sel + " .nivo-search-results .nivo-search-product-description{ color:" + c + "}")
		b.WriteString(sel + " .nivo-search-results .nivo-search-product-title{ color:" + c + "}")
	}
	if len(results) > 0 {
		b.WriteString(sel + " .nivo-search-results{" + strings.Join(results, ";") + "}")
	}
	return b.String()
}
