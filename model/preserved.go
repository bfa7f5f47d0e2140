package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PreservedTable is the identity a reviewer confirmed for one table.
type PreservedTable struct {
	Name          string   `json:"name,omitempty"`
	ID            string   `json:"id,omitempty"`
	ColumnHeaders []string `json:"column_headers,omitempty"`
	// TitleRow records that row 0 is a spanning title and the headers
	// live in row 1.
	TitleRow bool `json:"is_title_row,omitempty"`
}

// IsZero reports whether p carries nothing to preserve.
func (p PreservedTable) IsZero() bool {
	return strings.TrimSpace(p.Name) == "" && p.ID == "" && len(p.ColumnHeaders) == 0 && !p.TitleRow
}

// PreservedTableMetadata maps a table index to its confirmed identity.
// It is created per edit request and discarded with the response.
type PreservedTableMetadata map[int]PreservedTable

// Lookup returns the entry for table index i when it carries anything.
func (m PreservedTableMetadata) Lookup(i int) (PreservedTable, bool) {
	if m == nil {
		return PreservedTable{}, false
	}
	p, ok := m[i]
	if !ok || p.IsZero() {
		return PreservedTable{}, false
	}
	return p, true
}

// CapturePreserved records the identity of every table in s.
func CapturePreserved(s *DocumentStructure) PreservedTableMetadata {
	if s == nil {
		return nil
	}
	m := make(PreservedTableMetadata, len(s.Tables))
	for i, t := range s.Tables {
		m[i] = PreservedTable{
			Name:          t.Name,
			ID:            t.ID,
			ColumnHeaders: append([]string(nil), t.ColumnHeaders...),
			TitleRow:      t.TitleRow,
		}
	}
	return m
}

// UnmarshalJSON decodes leniently: keys that are not table indexes and
// fields of the wrong shape are dropped, and input that is not an object
// yields an empty map. It never returns an error.
func (m *PreservedTableMetadata) UnmarshalJSON(data []byte) error {
	*m = DecodePreserved(data)
	return nil
}

// DecodePreserved parses preserved metadata, treating anything unreadable
// as absent.
func DecodePreserved(data []byte) PreservedTableMetadata {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return PreservedTableMetadata{}
	}

	out := make(PreservedTableMetadata, len(raw))
	for key, value := range raw {
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || idx < 0 {
			continue
		}
		p, ok := decodePreservedTable(value)
		if !ok {
			continue
		}
		out[idx] = p
	}
	return out
}

func decodePreservedTable(data json.RawMessage) (PreservedTable, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return PreservedTable{}, false
	}

	var p PreservedTable
	if v, ok := fields["name"]; ok {
		_ = json.Unmarshal(v, &p.Name)
	}
	if v, ok := fields["id"]; ok {
		_ = json.Unmarshal(v, &p.ID)
	}
	if v, ok := fields["column_headers"]; ok {
		var items []json.RawMessage
		if json.Unmarshal(v, &items) == nil {
			headers := make([]string, 0, len(items))
			for _, item := range items {
				var s string
				if json.Unmarshal(item, &s) != nil {
					headers = nil
					break
				}
				headers = append(headers, s)
			}
			p.ColumnHeaders = headers
		}
	}
	if v, ok := fields["is_title_row"]; ok {
		_ = json.Unmarshal(v, &p.TitleRow)
	}
	if p.IsZero() {
		return PreservedTable{}, false
	}
	return p, true
}
