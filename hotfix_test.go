package geostore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeHotfix(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadHotfixes(t *testing.T) {
	t.Run("MissingFilesAreEmpty", func(t *testing.T) {
		overlay, err := LoadHotfixes(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(overlay.Deletes) != 0 || len(overlay.Boosts) != 0 {
			t.Errorf("overlay = %+v, want empty", overlay)
		}
	})

	t.Run("EmptyDirOption", func(t *testing.T) {
		overlay, err := LoadHotfixes("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(overlay.Deletes) != 0 || len(overlay.Boosts) != 0 {
			t.Errorf("overlay = %+v, want empty", overlay)
		}
	})

	t.Run("Boosts", func(t *testing.T) {
		dir := t.TempDir()
		writeHotfix(t, dir, hotfixBoostsFile,
			"507f1f77bcf86cd799439011|5\n"+
				"42,-3\n"+
				"7\t1\n"+
				"9 2\n"+
				"\n"+
				"# comment\n")
		overlay, err := LoadHotfixes(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := map[FeatureId]int{
			FeatureId(0xbcf86cd799439011): 5,
			42:                            -3,
			7:                             1,
			9:                             2,
		}
		if len(overlay.Boosts) != len(want) {
			t.Fatalf("boosts = %v, want %v", overlay.Boosts, want)
		}
		for id, boost := range want {
			if overlay.Boost(id) != boost {
				t.Errorf("boost(%d) = %d, want %d", id, overlay.Boost(id), boost)
			}
		}
	})

	t.Run("Deletes", func(t *testing.T) {
		dir := t.TempDir()
		writeHotfix(t, dir, hotfixDeletesFile, "507f1f77bcf86cd799439011\n")
		overlay, err := LoadHotfixes(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !overlay.Deleted(FeatureId(0xbcf86cd799439011)) {
			t.Error("delete entry not loaded")
		}
		if overlay.Deleted(42) {
			t.Error("unexpected delete for 42")
		}
	})

	t.Run("MalformedBoostLine", func(t *testing.T) {
		for _, line := range []string{"justoneToken", "a|b|c", "notanid|5", "42|notanint"} {
			dir := t.TempDir()
			writeHotfix(t, dir, hotfixBoostsFile, line+"\n")
			_, err := LoadHotfixes(dir)
			var malformed *MalformedHotfixLineError
			if !errors.As(err, &malformed) {
				t.Fatalf("line %q: err = %v, want MalformedHotfixLineError", line, err)
			}
			if malformed.Line != line {
				t.Errorf("error carries line %q, want %q", malformed.Line, line)
			}
		}
	})

	t.Run("MalformedDeleteLine", func(t *testing.T) {
		dir := t.TempDir()
		writeHotfix(t, dir, hotfixDeletesFile, "not-an-identifier\n")
		_, err := LoadHotfixes(dir)
		var malformed *MalformedHotfixLineError
		if !errors.As(err, &malformed) {
			t.Fatalf("err = %v, want MalformedHotfixLineError", err)
		}
	})
}
