package geostore

import (
	"errors"
	"testing"
)

func TestParseId(t *testing.T) {
	t.Run("Numeric", func(t *testing.T) {
		p := ParseId("42")
		if p.Kind != IdNumeric {
			t.Fatalf("kind = %v, want numeric", p.Kind)
		}
		if p.Id != FeatureId(42) {
			t.Errorf("id = %d, want 42", p.Id)
		}
	})

	t.Run("Legacy", func(t *testing.T) {
		p := ParseId("507f1f77bcf86cd799439011")
		if p.Kind != IdLegacy {
			t.Fatalf("kind = %v, want legacy", p.Kind)
		}
		// Low 8 bytes of the object id, big-endian.
		if p.Id != FeatureId(0xbcf86cd799439011) {
			t.Errorf("id = %x, want bcf86cd799439011", uint64(p.Id))
		}
	})

	t.Run("LegacyRoundTrip", func(t *testing.T) {
		id := FeatureId(0xbcf86cd799439011)
		legacy := id.Legacy()
		if len(legacy) != 24 {
			t.Fatalf("legacy form %q has %d chars, want 24", legacy, len(legacy))
		}
		p := ParseId(legacy)
		if p.Kind != IdLegacy || p.Id != id {
			t.Errorf("ParseId(%q) = %+v, want legacy %d", legacy, p, id)
		}
	})

	t.Run("SlugCandidate", func(t *testing.T) {
		for _, s := range []string{"nyc-times-square", "geonameid:5128581", "not hex at all but 24ch"} {
			if p := ParseId(s); p.Kind != IdSlug {
				t.Errorf("ParseId(%q).Kind = %v, want slug", s, p.Kind)
			}
		}
	})

	t.Run("Unparseable", func(t *testing.T) {
		for _, s := range []string{"", "   "} {
			if p := ParseId(s); p.Kind != IdUnparseable {
				t.Errorf("ParseId(%q).Kind = %v, want unparseable", s, p.Kind)
			}
		}
	})
}

func TestParseFeatureId(t *testing.T) {
	if id, err := ParseFeatureId("42"); err != nil || id != 42 {
		t.Errorf("ParseFeatureId(42) = %d, %v", id, err)
	}

	_, err := ParseFeatureId("justoneToken")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if parseErr.Input != "justoneToken" {
		t.Errorf("ParseError.Input = %q", parseErr.Input)
	}
}

func TestFeatureIdSurfaces(t *testing.T) {
	id := FeatureId(5128581)
	if id.String() != "5128581" {
		t.Errorf("String() = %q", id.String())
	}
	if got := id.Slug("geonameid"); got != "geonameid:5128581" {
		t.Errorf("Slug() = %q", got)
	}
}
