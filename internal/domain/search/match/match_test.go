package match

import (
	"testing"

	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/query"
)

const (
	hubHistory  = "HUB Historical Consciousness"
	hubWriting  = "HUB Writing-Intensive Course"
	hubTeamwork = "HUB Teamwork/Collaboration"
	hubQuant    = "HUB Quantitative Reasoning I"
)

func entry(t *testing.T, title, code, desc string, hubs ...string) course.Entry {
	t.Helper()
	e, err := course.New(title, desc, code, hubs, "", nil)
	if err != nil {
		t.Fatalf("course.New: %v", err)
	}
	return e
}

func catalog(t *testing.T) []course.Entry {
	t.Helper()
	return []course.Entry{
		entry(t, "Holocaust History", "HI", "A survey of the Holocaust and its memory.", hubHistory, hubWriting),
		entry(t, "Signals", "EE", "Fourier transform methods for signals.", hubQuant),
		entry(t, "Math of History", "MA", "Holocaust records analysed with the Fourier transform.", hubHistory),
		entry(t, "Team Writing", "WR", "Collaborative essays.", hubWriting, hubTeamwork),
		entry(t, "Team Project", "CS", "Full-stack webdev in teams.", hubTeamwork),
		entry(t, "Quiet Course", "PH", "Nothing relevant here.", hubQuant),
	}
}

func titles(entries []course.Entry) []string {
	out := make([]string, len(entries))
	for i := range entries {
		out[i] = entries[i].Title()
	}
	return out
}

func assertTitles(t *testing.T, got []course.Entry, want ...string) {
	t.Helper()
	g := titles(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range g {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestRequiredCount(t *testing.T) {
	tests := []struct {
		n, pct, want int
	}{
		{0, 70, 0},
		{1, 70, 1},
		{2, 70, 2},
		{3, 70, 3},
		{4, 70, 3},
		{5, 70, 4},
		{10, 70, 7},
		{3, 50, 2},
		{3, 0, 3},
		{4, 100, 4},
	}
	for _, tt := range tests {
		if got := RequiredCount(tt.n, tt.pct); got != tt.want {
			t.Errorf("RequiredCount(%d, %d) = %d, want %d", tt.n, tt.pct, got, tt.want)
		}
	}
}

func TestMatch_NoFiltersReturnsWholeCatalogInOrder(t *testing.T) {
	cat := catalog(t)
	for _, m := range []mode.Mode{mode.Broad, mode.Honed} {
		got := New(Policy{}).Match(cat, Criteria{Mode: m})
		assertTitles(t, got, titles(cat)...)
	}
}

func TestMatch_EmptyCatalog(t *testing.T) {
	got := New(Policy{}).Match(nil, Criteria{Keywords: query.Keywords{"law"}, Mode: mode.Honed})
	if got == nil {
		t.Fatal("expected non-nil empty result")
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", titles(got))
	}
}

func TestMatch_KeywordsHubUnitsHoned(t *testing.T) {
	got := New(Policy{}).Match(catalog(t), Criteria{
		Keywords: query.Keywords{"holocaust", "fourier", "transform"},
		HubUnits: []string{hubHistory},
		Mode:     mode.Honed,
	})
	assertTitles(t, got, "Math of History")
}

func TestMatch_KeywordsHubUnitsBroad(t *testing.T) {
	got := New(Policy{}).Match(catalog(t), Criteria{
		Keywords: query.Keywords{"holocaust", "fourier", "transform"},
		HubUnits: []string{hubHistory},
		Mode:     mode.Broad,
	})
	assertTitles(t, got, "Holocaust History", "Math of History")
}

func TestMatch_KeywordsOnly(t *testing.T) {
	kw := query.Keywords{"fourier", "transform", "holocaust"}
	m := New(Policy{})

	broad := m.Match(catalog(t), Criteria{Keywords: kw, Mode: mode.Broad})
	assertTitles(t, broad, "Holocaust History", "Signals", "Math of History")

	honed := m.Match(catalog(t), Criteria{Keywords: kw, Mode: mode.Honed})
	assertTitles(t, honed, "Math of History")
}

func TestMatch_HubUnitsOnlyHoned(t *testing.T) {
	// Without keywords, honed requires every selected unit.
	got := New(Policy{}).Match(catalog(t), Criteria{
		HubUnits: []string{hubWriting, hubTeamwork},
		Mode:     mode.Honed,
	})
	assertTitles(t, got, "Team Writing")
}

func TestMatch_HubUnitsOnlyBroad(t *testing.T) {
	// Without keywords, broad requires any selected unit.
	got := New(Policy{}).Match(catalog(t), Criteria{
		HubUnits: []string{hubWriting, hubTeamwork},
		Mode:     mode.Broad,
	})
	assertTitles(t, got, "Holocaust History", "Team Writing", "Team Project")
}

func TestMatch_KeywordsWithHubUnitsUseIntersectionInHonedMode(t *testing.T) {
	// With keywords present, a single shared hub unit is enough even in honed mode.
	got := New(Policy{}).Match(catalog(t), Criteria{
		Keywords: query.Keywords{"essays"},
		HubUnits: []string{hubWriting, hubQuant},
		Mode:     mode.Honed,
	})
	assertTitles(t, got, "Team Writing")
}

func TestMatch_CodeGate(t *testing.T) {
	cat := catalog(t)
	codes := []string{"HI", "MA"}
	criteria := []Criteria{
		{Codes: codes, Mode: mode.Broad},
		{Codes: codes, Mode: mode.Honed},
		{Codes: codes, Keywords: query.Keywords{"fourier"}, Mode: mode.Broad},
		{Codes: codes, HubUnits: []string{hubWriting}, Mode: mode.Honed},
	}
	m := New(Policy{})
	for _, c := range criteria {
		for _, e := range m.Match(cat, c) {
			if e.Code() != "HI" && e.Code() != "MA" {
				t.Errorf("entry %q with code %q escaped code gate", e.Title(), e.Code())
			}
		}
	}

	got := m.Match(cat, Criteria{Codes: codes, Keywords: query.Keywords{"fourier"}, Mode: mode.Broad})
	assertTitles(t, got, "Math of History")
}

func TestMatch_UnknownVocabularyMatchesNothing(t *testing.T) {
	m := New(Policy{})
	if got := m.Match(catalog(t), Criteria{Codes: []string{"ZZ"}}); len(got) != 0 {
		t.Errorf("unknown code matched %v", titles(got))
	}
	if got := m.Match(catalog(t), Criteria{HubUnits: []string{"HUB Nonexistent"}}); len(got) != 0 {
		t.Errorf("unknown hub unit matched %v", titles(got))
	}
}

func TestMatch_BroadIsSupersetOfHoned(t *testing.T) {
	cat := catalog(t)
	m := New(Policy{})
	variants := []Criteria{
		{Keywords: query.Keywords{"holocaust", "fourier", "transform"}},
		{Keywords: query.Keywords{"team", "essays"}, HubUnits: []string{hubTeamwork}},
		{HubUnits: []string{hubWriting, hubTeamwork}},
		{HubUnits: []string{hubHistory}, Codes: []string{"HI", "MA", "WR"}},
		{Keywords: query.Keywords{"signals"}, Codes: []string{"EE"}},
		{},
	}
	for i, v := range variants {
		b := v
		b.Mode = mode.Broad
		h := v
		h.Mode = mode.Honed

		broad := make(map[string]bool)
		for _, title := range titles(m.Match(cat, b)) {
			broad[title] = true
		}
		for _, title := range titles(m.Match(cat, h)) {
			if !broad[title] {
				t.Errorf("variant %d: honed result %q missing from broad", i, title)
			}
		}
	}
}

func TestMatch_TokenMatchingIsWholeWord(t *testing.T) {
	cat := []course.Entry{
		entry(t, "Art", "AH", "Art history and artistic practice."),
		entry(t, "Cart", "ME", "Design a cart."),
		entry(t, "Web", "CS", "Full-stack webdev, (JavaScript)."),
	}
	m := New(Policy{})

	assertTitles(t, m.Match(cat, Criteria{Keywords: query.Keywords{"art"}}), "Art")
	assertTitles(t, m.Match(cat, Criteria{Keywords: query.Keywords{"full-stack"}}), "Web")
	assertTitles(t, m.Match(cat, Criteria{Keywords: query.Keywords{"stack"}}), "Web")
	assertTitles(t, m.Match(cat, Criteria{Keywords: query.Keywords{"javascript"}}), "Web")
	assertTitles(t, m.Match(cat, Criteria{Keywords: query.Keywords{"webdev!"}}), "Web")
	assertTitles(t, m.Match(cat, Criteria{Keywords: query.Keywords{"..."}}))
}

func TestMatch_SymbolKeywords(t *testing.T) {
	cat := []course.Entry{
		entry(t, "Vitamins", "BI", "Vitamin C and nutrition."),
		entry(t, "Cpp", "CS", "Systems programming in C++."),
		entry(t, "Dotnet", "CS", "Services in C# and .NET."),
		entry(t, "Seminar", "PH", "Any questions ?"),
	}
	m := New(Policy{FoldPlurals: query.TrailingS{}})

	tests := []struct {
		keyword string
		want    []string
	}{
		{"c++", []string{"Cpp"}},
		{"c#", []string{"Dotnet"}},
		{"c", []string{"Vitamins"}},
		{".net", []string{"Dotnet"}},
		{"c++.", []string{"Cpp"}},
		{"?", []string{"Seminar"}},
		{"c+", nil},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got := m.Match(cat, Criteria{Keywords: query.Keywords{tt.keyword}, Mode: mode.Broad})
			assertTitles(t, got, tt.want...)
		})
	}
}

func TestMatch_SubstringMatching(t *testing.T) {
	cat := []course.Entry{
		entry(t, "Art", "AH", "Art history."),
		entry(t, "Cart", "ME", "Design a cart."),
	}
	m := New(Policy{KeywordMatch: Substring})
	assertTitles(t, m.Match(cat, Criteria{Keywords: query.Keywords{"art"}}), "Art", "Cart")
}

func TestMatch_FoldPlurals(t *testing.T) {
	cat := []course.Entry{
		entry(t, "Law", "PO", "Jim Crow laws in the American South."),
	}
	plain := New(Policy{})
	folded := New(Policy{FoldPlurals: query.TrailingS{}})

	assertTitles(t, plain.Match(cat, Criteria{Keywords: query.Keywords{"law"}}))
	assertTitles(t, folded.Match(cat, Criteria{Keywords: query.Keywords{"law"}}), "Law")
	assertTitles(t, folded.Match(cat, Criteria{Keywords: query.Keywords{"laws"}}), "Law")
}

func TestMatch_CaseInsensitive(t *testing.T) {
	cat := []course.Entry{entry(t, "Signals", "EE", "FOURIER Transform")}
	assertTitles(t, New(Policy{}).Match(cat, Criteria{Keywords: query.Keywords{"fourier", "transform"}, Mode: mode.Honed}), "Signals")
}

func TestMatch_HonedThresholdTenKeywords(t *testing.T) {
	cat := []course.Entry{
		entry(t, "Seven", "CS", "a1 a2 a3 a4 a5 a6 a7"),
		entry(t, "Six", "CS", "a1 a2 a3 a4 a5 a6"),
	}
	kw := query.Keywords{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10"}
	assertTitles(t, New(Policy{}).Match(cat, Criteria{Keywords: kw, Mode: mode.Honed}), "Seven")
	assertTitles(t, New(Policy{ThresholdPercent: 60}).Match(cat, Criteria{Keywords: kw, Mode: mode.Honed}), "Seven", "Six")
}

func TestMatch_DoesNotMutateCatalog(t *testing.T) {
	cat := catalog(t)
	before := titles(cat)
	_ = New(Policy{}).Match(cat, Criteria{Keywords: query.Keywords{"fourier"}, HubUnits: []string{hubQuant}})
	assertTitles(t, cat, before...)
}

func TestIndex_Entries(t *testing.T) {
	cat := catalog(t)
	idx := NewIndex(cat, Policy{})
	if idx.Len() != len(cat) {
		t.Errorf("Len() = %d, want %d", idx.Len(), len(cat))
	}
	if idx.Policy().ThresholdPercent != DefaultThresholdPercent || idx.Policy().KeywordMatch != Token {
		t.Errorf("Policy() = %+v, want defaults", idx.Policy())
	}
	assertTitles(t, idx.Entries(), titles(cat)...)
}

func TestParseKeywordMatch(t *testing.T) {
	for in, want := range map[string]KeywordMatch{"": Token, "token": Token, "SUBSTRING": Substring} {
		got, err := ParseKeywordMatch(in)
		if err != nil || got != want {
			t.Errorf("ParseKeywordMatch(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKeywordMatch("fuzzy"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
