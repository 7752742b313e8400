// Package catalog holds the storage representation shared by the catalog
// backends. Every backend reads and writes the same row shape.
package catalog

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/coursesearch/internal/domain/course"
)

// Row is the serialized form of one catalog entry.
type Row struct {
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description" yaml:"description"`
	Code          string   `json:"code" yaml:"code"`
	HubUnits      []string `json:"hub_units" yaml:"hub_units"`
	Prerequisites string   `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Credits       *float64 `json:"credits,omitempty" yaml:"credits,omitempty"`
}

// FromEntry converts a validated entry to a row.
func FromEntry(e course.Entry) Row {
	r := course.ToRecord(e)
	return Row{
		Title:         r.Title,
		Description:   r.Description,
		Code:          r.Code,
		HubUnits:      r.HubUnits,
		Prerequisites: r.Prerequisites,
		Credits:       r.Credits,
	}
}

// Record converts a row to an unvalidated record.
func (r Row) Record() course.Record {
	return course.Record{
		Title:         r.Title,
		Description:   r.Description,
		Code:          r.Code,
		HubUnits:      r.HubUnits,
		Prerequisites: r.Prerequisites,
		Credits:       r.Credits,
	}
}

// Rows converts entries to rows, keeping order. HubUnits is never nil.
func Rows(entries []course.Entry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = FromEntry(e)
		if rows[i].HubUnits == nil {
			rows[i].HubUnits = []string{}
		}
	}
	return rows
}

// Records converts rows to records, keeping order.
func Records(rows []Row) []course.Record {
	out := make([]course.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Record()
	}
	return out
}

// EncodeJSON serializes entries as a JSON array.
func EncodeJSON(entries []course.Entry) ([]byte, error) {
	data, err := json.Marshal(Rows(entries))
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return data, nil
}

// DecodeJSON parses a JSON array of rows.
func DecodeJSON(data []byte) ([]course.Record, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return Records(rows), nil
}

// EncodeYAML serializes entries as a YAML sequence.
func EncodeYAML(entries []course.Entry) ([]byte, error) {
	data, err := yaml.Marshal(Rows(entries))
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return data, nil
}

// DecodeYAML parses a YAML sequence of rows. JSON input is accepted too.
func DecodeYAML(data []byte) ([]course.Record, error) {
	var rows []Row
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return Records(rows), nil
}
