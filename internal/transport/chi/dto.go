package chi

import (
	"github.com/kailas-cloud/coursesearch/internal/domain"
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/request"
	"github.com/kailas-cloud/coursesearch/internal/version"
	searchuc "github.com/kailas-cloud/coursesearch/internal/usecase/search"
)

const (
	batchStatusOK    = "ok"
	batchStatusError = "error"
)

type errorResponseJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// courseJSON is one course on the wire. hub_units is always an array;
// prerequisites and credits are omitted when absent.
type courseJSON struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Code          string   `json:"code"`
	HubUnits      []string `json:"hub_units"`
	Prerequisites string   `json:"prerequisites,omitempty"`
	Credits       *float64 `json:"credits,omitempty"`
}

type searchRequestJSON struct {
	Query      string   `json:"query"`
	HubUnits   []string `json:"hub_units"`
	Codes      []string `json:"codes"`
	SearchMode string   `json:"search_mode"`
}

type searchResponseJSON struct {
	Keywords []string     `json:"keywords"`
	Query    string       `json:"query"`
	Count    int          `json:"count"`
	Courses  []courseJSON `json:"courses"`
}

type batchRequestJSON struct {
	Searches []searchRequestJSON `json:"searches"`
}

type batchItemJSON struct {
	Status string              `json:"status"`
	Result *searchResponseJSON `json:"result,omitempty"`
	Error  *errorResponseJSON  `json:"error,omitempty"`
}

type batchResponseJSON struct {
	Results []batchItemJSON `json:"results"`
}

type normalizeResponseJSON struct {
	Keywords []string `json:"keywords"`
	Query    string   `json:"query"`
}

type vocabularyResponseJSON struct {
	HubUnits []string `json:"hub_units"`
	Codes    []string `json:"codes"`
	Modes    []string `json:"search_modes"`
}

type refreshResponseJSON struct {
	Loaded  int            `json:"loaded"`
	Skipped int            `json:"skipped"`
	Reasons map[string]int `json:"skipped_reasons,omitempty"`
	Trimmed int            `json:"trimmed"`
}

type healthResponseJSON struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version version.Info      `json:"version"`
}

func (b *searchRequestJSON) toRequest() (request.Request, error) {
	m, err := mode.Parse(b.SearchMode)
	if err != nil {
		return request.Request{}, domain.NewFieldError("search_mode", err.Error())
	}
	return request.New(b.Query, b.Codes, b.HubUnits, m)
}

func courseToJSON(e *course.Entry) courseJSON {
	hubs := e.HubUnits()
	if hubs == nil {
		hubs = []string{}
	}
	return courseJSON{
		Title:         e.Title(),
		Description:   e.Description(),
		Code:          e.Code(),
		HubUnits:      hubs,
		Prerequisites: e.Prerequisites(),
		Credits:       e.Credits(),
	}
}

func coursesToJSON(entries []course.Entry) []courseJSON {
	out := make([]courseJSON, len(entries))
	for i := range entries {
		out[i] = courseToJSON(&entries[i])
	}
	return out
}

func searchResponseToJSON(resp searchuc.Response) searchResponseJSON {
	kw := []string(resp.Keywords)
	if kw == nil {
		kw = []string{}
	}
	return searchResponseJSON{
		Keywords: kw,
		Query:    resp.Keywords.String(),
		Count:    len(resp.Entries),
		Courses:  coursesToJSON(resp.Entries),
	}
}

func batchErrorItem(err error) batchItemJSON {
	return batchItemJSON{
		Status: batchStatusError,
		Error:  &errorResponseJSON{Code: errorCode(err), Message: safeDomainMessage(err)},
	}
}
