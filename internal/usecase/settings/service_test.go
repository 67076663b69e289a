package settings

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	domset "github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

func TestResolve_DefaultsOnly(t *testing.T) {
	svc := New(newMockRepo())
	s, err := svc.Resolve(context.Background(), 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Limit != 10 || s.MinChars != 2 {
		t.Errorf("Limit/MinChars = %d/%d", s.Limit, s.MinChars)
	}
}

func TestResolve_PresetApplied(t *testing.T) {
	repo := newMockRepo()
	repo.options["nivo_search_limit"] = "20"
	repo.presets[3] = validPreset(3, map[string]domset.Layer{
		domset.SectionGenerale: {"limit": "4"},
		domset.SectionQuery:    {"search_in_sku": "1"},
	})

	s, err := New(repo).Resolve(context.Background(), 3, domset.Layer{"show_sku": "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Limit != 4 {
		t.Errorf("Limit = %d, want 4", s.Limit)
	}
	if !s.HasField(domset.FieldSKU) {
		t.Error("expected sku field from preset")
	}
	if !s.Display.ShowSKU {
		t.Error("expected override applied")
	}
}

func TestResolve_DefaultPresetUsed(t *testing.T) {
	repo := newMockRepo()
	repo.options["nivo_search_default_preset_created"] = "9"
	repo.presets[9] = validPreset(9, map[string]domset.Layer{domset.SectionGenerale: {"min_chars": "4"}})

	s, err := New(repo).Resolve(context.Background(), 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.MinChars != 4 {
		t.Errorf("MinChars = %d, want 4", s.MinChars)
	}
}

func TestResolve_InvalidPresetFallsBack(t *testing.T) {
	tests := []struct {
		name string
		repo func() *mockRepo
	}{
		{"missing", newMockRepo},
		{"wrong type", func() *mockRepo {
			r := newMockRepo()
			r.presets[5] = domset.Preset{ID: 5, PostType: "page", Sections: map[string]domset.Layer{
				domset.SectionGenerale: {"limit": "1"},
			}}
			return r
		}},
		{"store error", func() *mockRepo {
			r := newMockRepo()
			r.presetErr = errors.New("connection reset")
			return r
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := tt.repo()
			repo.options["nivo_search_limit"] = "7"
			s, err := New(repo).Resolve(context.Background(), 5, nil)
			if err != nil {
				t.Fatalf("invalid preset must not surface: %v", err)
			}
			if s.Limit != 7 {
				t.Errorf("Limit = %d, want site-wide 7", s.Limit)
			}
		})
	}
}

func TestResolve_OptionsError(t *testing.T) {
	repo := newMockRepo()
	repo.optionsErr = errors.New("down")
	if _, err := New(repo).Resolve(context.Background(), 0, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestPutOptions_Sanitizes(t *testing.T) {
	repo := newMockRepo()
	clean, err := New(repo).PutOptions(context.Background(), domset.Layer{"nivo_search_limit": "-9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clean["limit"] != "9" || repo.options["nivo_search_limit"] != "9" {
		t.Errorf("clean = %v, stored = %v", clean, repo.options)
	}

	_, err = New(repo).PutOptions(context.Background(), domset.Layer{"bg_color": "nope"})
	if !errors.Is(err, domain.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestOptions_Canonical(t *testing.T) {
	repo := newMockRepo()
	repo.options["nivo_search_in_tags"] = "1"
	repo.options["junk"] = "x"
	out, err := New(repo).Options(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["search_product_tags"] != "1" || len(out) != 1 {
		t.Errorf("Options = %v", out)
	}
}

func TestCreatePreset_FirstBecomesDefault(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)

	p, err := svc.CreatePreset(context.Background(), domset.Preset{Title: "Main"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.options["nivo_search_default_preset_created"] != "1" {
		t.Errorf("default = %q", repo.options["nivo_search_default_preset_created"])
	}
	if !repo.presets[p.ID].Valid() {
		t.Error("stored preset should be a valid preset record")
	}

	if _, err := svc.CreatePreset(context.Background(), domset.Preset{Title: "Second"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.options["nivo_search_default_preset_created"] != "1" {
		t.Error("default must not move on later creates")
	}
}

func TestPreset_WrongTypeIsNotFound(t *testing.T) {
	repo := newMockRepo()
	repo.presets[2] = domset.Preset{ID: 2, PostType: "product"}
	if _, err := New(repo).Preset(context.Background(), 2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPutPreset(t *testing.T) {
	repo := newMockRepo()
	p, err := New(repo).PutPreset(context.Background(), 4, domset.Preset{
		Title:    "Side",
		Sections: map[string]domset.Layer{domset.SectionDisplay: {"show_price": "no"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 4 || repo.presets[4].Sections[domset.SectionDisplay]["show_price"] != "0" {
		t.Errorf("stored = %+v", repo.presets[4])
	}

	if _, err := New(repo).PutPreset(context.Background(), 0, domset.Preset{}); !errors.Is(err, domain.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestDeletePreset_ClearsDefault(t *testing.T) {
	repo := newMockRepo()
	repo.presets[6] = validPreset(6, nil)
	repo.options["nivo_search_default_preset_created"] = "6"

	if err := New(repo).DeletePreset(context.Background(), 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != domset.KeyDefaultPreset {
		t.Errorf("deleted options = %v", repo.deleted)
	}

	if err := New(repo).DeletePreset(context.Background(), 6); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPresets_SkipsWrongType(t *testing.T) {
	repo := newMockRepo()
	repo.presets[1] = validPreset(1, nil)
	repo.presets[2] = domset.Preset{ID: 2, PostType: "page"}
	out, err := New(repo).ListPresets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Errorf("ListPresets = %v", out)
	}
}

func TestPresetCSS(t *testing.T) {
	repo := newMockRepo()
	repo.presets[8] = validPreset(8, map[string]domset.Layer{
		domset.SectionStyle: {"bar_width": "420"},
	})
	css, err := New(repo).PresetCSS(context.Background(), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(css, ".nivo-preset-8 .nivo-search-form-wrapper{max-width:420px}") {
		t.Errorf("css = %q", css)
	}
}
