package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultVocabulary(t *testing.T) {
	v := DefaultVocabulary()

	if got := len(v.HubUnits()); got != 18 {
		t.Errorf("len(HubUnits()) = %d, want 18", got)
	}
	if got := len(v.Codes()); got != 64 {
		t.Errorf("len(Codes()) = %d, want 64", got)
	}
	for _, w := range []string{"i", "want", "semester", "about"} {
		if !v.IsStopword(w) {
			t.Errorf("%q should be a stopword", w)
		}
	}
	for _, w := range []string{"fourier", "holocaust", "law"} {
		if v.IsStopword(w) {
			t.Errorf("%q should not be a stopword", w)
		}
	}
	if !v.HasHubUnit("HUB Historical Consciousness") || !v.HasCode("CS") {
		t.Error("expected known hub unit and code")
	}
	if !v.HasCode("IN") {
		t.Error("code IN must survive YAML decoding as a string")
	}
}

func TestLoadVocabulary_EmptyPath(t *testing.T) {
	v, err := LoadVocabulary("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Codes()) != 64 {
		t.Errorf("len(Codes()) = %d", len(v.Codes()))
	}
}

func TestLoadVocabulary_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	body := "stopwords: [intro, course]\ncodes: [XX]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary: %v", err)
	}
	if !v.IsStopword("intro") || v.IsStopword("semester") {
		t.Error("stopwords were not replaced")
	}
	if codes := v.Codes(); len(codes) != 1 || codes[0] != "XX" {
		t.Errorf("Codes() = %v", codes)
	}
	if len(v.HubUnits()) != 18 {
		t.Errorf("hub units should keep defaults, got %d", len(v.HubUnits()))
	}
}

func TestLoadVocabulary_Errors(t *testing.T) {
	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("codes: {not: [a list"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadVocabulary(path); err == nil {
		t.Error("expected parse error")
	}
}
