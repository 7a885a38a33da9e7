package models

import "github.com/noah-isme/timetable-workspace/pkg/format"

// Record is an opaque dataset row keyed by column.
type Record map[string]interface{}

// ID returns the server-assigned identity in string form.
func (r Record) ID() string {
	return format.Stringify(r["id"])
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
