package settings

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/nivosearch/internal/domain"
)

var (
	hexColor = regexp.MustCompile(`^#([A-Fa-f0-9]{3}){1,2}$`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
)

// SanitizeHexColor accepts 3 or 6 digit hex colors with a leading '#'.
func SanitizeHexColor(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !hexColor.MatchString(v) {
		return "", false
	}
	return v, true
}

// AbsInt mirrors the admin form coercion: any value becomes a
// non-negative integer, garbage becomes zero.
func AbsInt(v string) int {
	n, ok := ParseInt(v)
	if !ok {
		return 0
	}
	if n < 0 {
		return -n
	}
	return n
}

// StripTags removes markup and collapses whitespace.
func StripTags(v string) string {
	v = tagRe.ReplaceAllString(v, "")
	v = html.UnescapeString(v)
	return strings.Join(strings.Fields(v), " ")
}

// Sanitize normalizes an admin write. Keys are canonicalized; unknown keys
// and unusable colors are rejected with ErrInvalidSettings.
func Sanitize(in Layer) (Layer, error) {
	out := make(Layer, len(in))
	for raw, v := range in {
		key, ok := CanonicalKey(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSettings, raw)
		}
		kind, _ := KindOf(key)
		switch kind {
		case KindBool:
			b, _ := ParseBool(v)
			out[key] = FormatBool(b)
		case KindInt:
			out[key] = strconv.Itoa(AbsInt(v))
		case KindColor:
			c, ok := SanitizeHexColor(v)
			if !ok {
				return nil, fmt.Errorf("%w: %s is not a hex color", domain.ErrInvalidSettings, key)
			}
			out[key] = c
		case KindIDList:
			out[key] = FormatIDs(ParseIDs(v))
		case KindText:
			out[key] = StripTags(v)
		}
	}
	return out, nil
}

// SanitizePreset sanitizes every section of a preset write.
func SanitizePreset(p Preset) (Preset, error) {
	out := p
	out.Title = StripTags(p.Title)
	out.PostType = PresetPostType
	if out.Status == "" {
		out.Status = "publish"
	}
	out.Sections = make(map[string]Layer, len(p.Sections))
	for name, sec := range p.Sections {
		if !isSection(name) {
			return Preset{}, fmt.Errorf("%w: unknown section %q", domain.ErrInvalidSettings, name)
		}
		clean, err := Sanitize(sec)
		if err != nil {
			return Preset{}, fmt.Errorf("section %s: %w", name, err)
		}
		out.Sections[name] = clean
	}
	return out, nil
}

func isSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}
