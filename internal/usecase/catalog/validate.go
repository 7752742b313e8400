package catalog

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/domain/vocab"
)

// Skip reasons reported by Validate.
const (
	ReasonInvalid     = "invalid_entry"
	ReasonUnknownCode = "unknown_code"
)

// Report summarizes one validation pass.
type Report struct {
	Loaded  int            `json:"loaded"`
	Skipped map[string]int `json:"skipped,omitempty"`
	// Trimmed counts entries that lost at least one unknown hub unit.
	Trimmed int `json:"trimmed"`
}

// SkippedTotal returns the number of records that were not loaded.
func (r Report) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

// Validate turns records into entries, keeping catalog order. Invalid records
// and records whose code is outside the vocabulary are skipped; hub units
// outside the vocabulary are dropped from the entry. An empty code or hub-unit
// list in the vocabulary disables that check.
func Validate(records []course.Record, v vocab.Vocabulary, log *zap.Logger) ([]course.Entry, Report) {
	if log == nil {
		log = zap.NewNop()
	}
	checkCodes := len(v.Codes()) > 0
	checkHubs := len(v.HubUnits()) > 0

	rep := Report{Skipped: map[string]int{}}
	out := make([]course.Entry, 0, len(records))
	for i, rec := range records {
		e, err := rec.Entry()
		if err != nil {
			rep.Skipped[ReasonInvalid]++
			log.Warn("skipping invalid catalog entry", zap.Int("position", i), zap.Error(err))
			continue
		}
		if checkCodes && !v.HasCode(e.Code()) {
			rep.Skipped[ReasonUnknownCode]++
			log.Warn("skipping catalog entry with unknown code",
				zap.String("title", e.Title()), zap.String("code", e.Code()))
			continue
		}
		if checkHubs {
			kept := make([]string, 0, len(e.HubUnits()))
			for _, h := range e.HubUnits() {
				if v.HasHubUnit(h) {
					kept = append(kept, h)
					continue
				}
				log.Warn("dropping unknown hub unit",
					zap.String("title", e.Title()), zap.String("hub_unit", h))
			}
			if len(kept) != len(e.HubUnits()) {
				rep.Trimmed++
				e = e.WithHubUnits(kept)
			}
		}
		out = append(out, e)
	}
	rep.Loaded = len(out)
	return out, rep
}
