package service

import (
	"fmt"
	"sync"

	"github.com/noah-isme/timetable-workspace/internal/models"
)

// Default enumerations used until the backend supplies its own.
var (
	DefaultRoomTypes   = []string{"LECTURE_ROOM", "COMPUTER_LAB", "HARDWARE_LAB", "SEATER_120", "SEATER_240"}
	DefaultCourseTypes = []string{"regular", "elective", "lab"}
)

func idColumn() models.ColumnSpec {
	return models.ColumnSpec{Key: "id", Label: "ID", Width: 90, Editable: false, Type: models.ColumnText, Required: true, NoWrap: true}
}

func column(key, label string, width int, typ models.ColumnType) models.ColumnSpec {
	return models.ColumnSpec{Key: key, Label: label, Width: width, Editable: true, Type: typ, Required: true, NoWrap: true}
}

var registry = map[models.DatasetType]models.DatasetSchema{
	models.DatasetBatches: {
		Type:     models.DatasetBatches,
		Name:     "Batches",
		Singular: "Batch",
		Columns: []models.ColumnSpec{
			idColumn(),
			withMinWidth(column("batchName", "Batch", 0, models.ColumnText), 180),
			column("year", "Year", 80, models.ColumnNumber),
			column("section", "Section", 90, models.ColumnText),
			column("studentCount", "Students", 120, models.ColumnNumber),
		},
	},
	models.DatasetFaculty: {
		Type:     models.DatasetFaculty,
		Name:     "Faculty",
		Singular: "Faculty record",
		Columns: []models.ColumnSpec{
			idColumn(),
			column("name", "Instructor", 180, models.ColumnText),
			column("subjects", "Subjects", 200, models.ColumnText),
			withWrap(column("email", "Email", 320, models.ColumnText)),
			column("maxHoursPerDay", "Max Hours / Day", 140, models.ColumnNumber),
		},
	},
	models.DatasetRooms: {
		Type:     models.DatasetRooms,
		Name:     "Rooms",
		Singular: "Room",
		Columns: []models.ColumnSpec{
			idColumn(),
			column("roomNumber", "Room Number", 140, models.ColumnText),
			column("capacity", "Capacity", 120, models.ColumnNumber),
			withOptions(column("roomType", "Room Type", 160, models.ColumnText), DefaultRoomTypes),
		},
	},
	models.DatasetCourses: {
		Type:     models.DatasetCourses,
		Name:     "Courses",
		Singular: "Course",
		Columns: []models.ColumnSpec{
			idColumn(),
			column("name", "Course Name", 200, models.ColumnText),
			column("courseCode", "Course Code", 140, models.ColumnText),
			column("credits", "Credits", 110, models.ColumnNumber),
			withOptions(column("courseType", "Course Type", 140, models.ColumnText), DefaultCourseTypes),
		},
	},
}

func withMinWidth(c models.ColumnSpec, minWidth int) models.ColumnSpec {
	c.MinWidth = minWidth
	return c
}

func withWrap(c models.ColumnSpec) models.ColumnSpec {
	c.NoWrap = false
	return c
}

func withOptions(c models.ColumnSpec, options []string) models.ColumnSpec {
	c.Options = options
	return c
}

// Schema returns a deep copy of the default schema for ds.
func Schema(ds models.DatasetType) (models.DatasetSchema, error) {
	schema, ok := registry[ds]
	if !ok {
		return models.DatasetSchema{}, fmt.Errorf("unknown dataset %q", ds)
	}
	schema.Columns = copyColumns(schema.Columns)
	return schema, nil
}

// Schemas lists every dataset schema in tab order.
func Schemas() []models.DatasetSchema {
	out := make([]models.DatasetSchema, 0, len(models.DatasetTypes))
	for _, ds := range models.DatasetTypes {
		schema, _ := Schema(ds)
		out = append(out, schema)
	}
	return out
}

// ResolveColumns overlays runtime type options on the default columns of ds.
// Only the Options of roomType and courseType are replaced, and only when the
// override is non-empty. The registry is never mutated.
func ResolveColumns(ds models.DatasetType, opts models.TypeOptions) ([]models.ColumnSpec, error) {
	schema, err := Schema(ds)
	if err != nil {
		return nil, err
	}
	override := map[string][]string{}
	switch ds {
	case models.DatasetRooms:
		if len(opts.RoomTypes) > 0 {
			override["roomType"] = opts.RoomTypes
		}
	case models.DatasetCourses:
		if len(opts.CourseTypes) > 0 {
			override["courseType"] = opts.CourseTypes
		}
	}
	for i := range schema.Columns {
		if values, ok := override[schema.Columns[i].Key]; ok {
			schema.Columns[i].Options = append([]string(nil), values...)
		}
	}
	return schema.Columns, nil
}

func copyColumns(columns []models.ColumnSpec) []models.ColumnSpec {
	out := make([]models.ColumnSpec, len(columns))
	for i, c := range columns {
		c.Options = append([]string(nil), c.Options...)
		if len(c.Options) == 0 {
			c.Options = nil
		}
		out[i] = c
	}
	return out
}

type resolvedKey struct {
	dataset  models.DatasetType
	revision uint64
}

type resolvedColumns struct {
	columns    []models.ColumnSpec
	strategies []FieldStrategy
}

// ColumnResolver memoizes resolved columns per dataset and option revision.
type ColumnResolver struct {
	mu       sync.Mutex
	opts     models.TypeOptions
	revision uint64
	cache    map[resolvedKey]resolvedColumns
}

// NewColumnResolver builds a resolver seeded with the default options.
func NewColumnResolver() *ColumnResolver {
	return &ColumnResolver{cache: make(map[resolvedKey]resolvedColumns)}
}

// SetOptions installs a new option bundle and invalidates memoized columns.
func (r *ColumnResolver) SetOptions(opts models.TypeOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = models.TypeOptions{
		RoomTypes:   append([]string(nil), opts.RoomTypes...),
		CourseTypes: append([]string(nil), opts.CourseTypes...),
	}
	r.revision++
	r.cache = make(map[resolvedKey]resolvedColumns)
}

// Options returns the current bundle.
func (r *ColumnResolver) Options() models.TypeOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// Columns returns resolved columns and their field strategies for ds.
func (r *ColumnResolver) Columns(ds models.DatasetType) ([]models.ColumnSpec, []FieldStrategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := resolvedKey{dataset: ds, revision: r.revision}
	if cached, ok := r.cache[key]; ok {
		return copyColumns(cached.columns), cached.strategies, nil
	}
	columns, err := ResolveColumns(ds, r.opts)
	if err != nil {
		return nil, nil, err
	}
	entry := resolvedColumns{columns: columns, strategies: StrategiesFor(columns)}
	r.cache[key] = entry
	return copyColumns(columns), entry.strategies, nil
}
