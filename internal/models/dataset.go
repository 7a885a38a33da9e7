package models

import (
	"fmt"
	"strings"
)

// DatasetType identifies one of the editable timetable datasets.
type DatasetType string

// Supported dataset identifiers. They double as upstream path segments.
const (
	DatasetBatches DatasetType = "batches"
	DatasetFaculty DatasetType = "faculty"
	DatasetRooms   DatasetType = "rooms"
	DatasetCourses DatasetType = "courses"
)

// DatasetTypes lists the datasets in tab order.
var DatasetTypes = []DatasetType{DatasetBatches, DatasetFaculty, DatasetRooms, DatasetCourses}

// ParseDatasetType normalises raw into a known dataset.
func ParseDatasetType(raw string) (DatasetType, error) {
	ds := DatasetType(strings.ToLower(strings.TrimSpace(raw)))
	if !ds.Valid() {
		return "", fmt.Errorf("unknown dataset %q", raw)
	}
	return ds, nil
}

// Valid reports whether d is one of the supported datasets.
func (d DatasetType) Valid() bool {
	switch d {
	case DatasetBatches, DatasetFaculty, DatasetRooms, DatasetCourses:
		return true
	}
	return false
}

// ColumnType drives comparison and input normalisation for a column.
type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnNumber ColumnType = "number"
)

// ColumnSpec describes one column of a dataset table.
type ColumnSpec struct {
	Key      string     `json:"key"`
	Label    string     `json:"label"`
	Width    int        `json:"width,omitempty"`
	MinWidth int        `json:"minWidth,omitempty"`
	Editable bool       `json:"editable"`
	Type     ColumnType `json:"type"`
	Required bool       `json:"required"`
	NoWrap   bool       `json:"noWrap"`
	Options  []string   `json:"options,omitempty"`
}

// DatasetSchema bundles labels and ordered columns for a dataset.
type DatasetSchema struct {
	Type     DatasetType  `json:"type"`
	Name     string       `json:"name"`
	Singular string       `json:"singular"`
	Columns  []ColumnSpec `json:"columns"`
}

// TypeOptions carries runtime enumerations for room and course types.
type TypeOptions struct {
	RoomTypes   []string `json:"roomTypes"`
	CourseTypes []string `json:"courseTypes"`
}
