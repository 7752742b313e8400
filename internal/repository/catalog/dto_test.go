package catalog

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/coursesearch/internal/domain/course"
)

func sampleEntries(t *testing.T) []course.Entry {
	t.Helper()
	credits := 4.0
	a, err := course.New("Signals", "Fourier transform", "EE", []string{"HUB Quantitative Reasoning I"}, "MA 124", &credits)
	if err != nil {
		t.Fatal(err)
	}
	b, err := course.New("Writing", "Essays", "WR", nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	return []course.Entry{a, b}
}

func TestEncodeJSON_OmitsAbsentOptionals(t *testing.T) {
	data, err := EncodeJSON(sampleEntries(t))
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"credits":4`) || !strings.Contains(s, `"prerequisites":"MA 124"`) {
		t.Errorf("missing optional fields for first entry: %s", s)
	}
	if !strings.Contains(s, `"hub_units":[]`) {
		t.Errorf("empty hub units must encode as []: %s", s)
	}
	if strings.Count(s, "credits") != 1 || strings.Count(s, "prerequisites") != 1 {
		t.Errorf("absent optionals must be omitted: %s", s)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := EncodeJSON(sampleEntries(t))
	if err != nil {
		t.Fatal(err)
	}
	recs, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(recs) != 2 || recs[0].Title != "Signals" || recs[1].Code != "WR" {
		t.Fatalf("DecodeJSON() = %+v", recs)
	}
	if recs[0].Credits == nil || *recs[0].Credits != 4 || recs[1].Credits != nil {
		t.Errorf("credits not preserved: %+v", recs)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	data, err := EncodeYAML(sampleEntries(t))
	if err != nil {
		t.Fatal(err)
	}
	recs, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if len(recs) != 2 || recs[0].HubUnits[0] != "HUB Quantitative Reasoning I" {
		t.Fatalf("DecodeYAML() = %+v", recs)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"title":`)); err == nil {
		t.Error("expected JSON error")
	}
	if _, err := DecodeYAML([]byte("- title: [unclosed")); err == nil {
		t.Error("expected YAML error")
	}
}
