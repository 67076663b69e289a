package settings

import (
	"reflect"
	"testing"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		in     string
		want   bool
		wantOK bool
	}{
		{"1", true, true},
		{"yes", true, true},
		{"TRUE", true, true},
		{" on ", true, true},
		{"0", false, true},
		{"", false, true},
		{"no", false, true},
		{"off", false, true},
		{"2", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		got, ok := ParseBool(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseBool(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"10", 10, true},
		{" 7 ", 7, true},
		{"3.9", 3, true},
		{"-2", -2, true},
		{"", 0, false},
		{"ten", 0, false},
		{"1e12", 2147483647, true},
	}
	for _, tt := range tests {
		got, ok := ParseInt(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseInt(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseIDs(t *testing.T) {
	got := ParseIDs(" 12,abc, 3,12,0,-5,")
	if !reflect.DeepEqual(got, []int64{12, 3}) {
		t.Errorf("ParseIDs = %v, want [12 3]", got)
	}
	if ParseIDs("  ") != nil {
		t.Error("blank input should give nil")
	}
	if FormatIDs([]int64{1, 2}) != "1,2" {
		t.Errorf("FormatIDs = %q", FormatIDs([]int64{1, 2}))
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"nivo_search_limit", KeyLimit, true},
		{"NIVO_SEARCH_IN_TAGS", KeySearchTags, true},
		{"search_in_categories", KeySearchCategories, true},
		{"placeholder_text", KeyPlaceholder, true},
		{"show_images", KeyShowImages, true},
		{"colour", "colour", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalKey(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CanonicalKey(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
