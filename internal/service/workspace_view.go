package service

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/format"
)

// RowView is one rendered table row.
type RowView struct {
	ID                    string        `json:"id"`
	Record                models.Record `json:"record"`
	Cells                 []string      `json:"cells"`
	Selected              bool          `json:"selected"`
	Editing               bool          `json:"editing"`
	SectionNeedsAttention bool          `json:"sectionNeedsAttention,omitempty"`
}

// AddFormView is the state of the add form.
type AddFormView struct {
	Open         bool          `json:"open"`
	Draft        models.Record `json:"draft"`
	Disabled     bool          `json:"disabled"`
	MissingField string        `json:"missingField,omitempty"`
	SectionIssue string        `json:"sectionIssue,omitempty"`
}

// WorkspaceView is an immutable snapshot of a workspace.
type WorkspaceView struct {
	SessionID          string                   `json:"sessionId"`
	Dataset            models.DatasetType       `json:"dataset"`
	Name               string                   `json:"name"`
	Singular           string                   `json:"singular"`
	Columns            []models.ColumnSpec      `json:"columns"`
	Inputs             []FieldInput             `json:"inputs"`
	ExpectedColumns    string                   `json:"expectedColumns"`
	Loading            bool                     `json:"loading"`
	Search             string                   `json:"search"`
	Sort               SortState                `json:"sort"`
	Rows               []RowView                `json:"rows"`
	TotalRecords       int                      `json:"totalRecords"`
	VisibleRecords     int                      `json:"visibleRecords"`
	SelectedIDs        []string                 `json:"selectedIds"`
	AllVisibleSelected bool                     `json:"allVisibleSelected"`
	Indeterminate      bool                     `json:"indeterminate"`
	NoRecords          bool                     `json:"noRecords"`
	FilteredEmpty      bool                     `json:"filteredEmpty"`
	Editing            models.Record            `json:"editing,omitempty"`
	Add                AddFormView              `json:"add"`
	UploadOpen         bool                     `json:"uploadOpen"`
	Report             *models.ValidationReport `json:"validationReport,omitempty"`
	Message            *models.Message          `json:"message,omitempty"`
	Toast              *models.Toast            `json:"toast,omitempty"`
	Confirmation       *models.Confirmation     `json:"confirmation,omitempty"`
	Preview            models.PreviewState      `json:"preview"`
	LastBulkDelete     *models.BulkDeleteResult `json:"lastBulkDelete,omitempty"`
}

// View renders the current state.
func (w *Workspace) View() WorkspaceView {
	w.mu.Lock()
	defer w.mu.Unlock()

	schema, _ := Schema(w.dataset)
	columns, strategies, err := w.resolver.Columns(w.dataset)
	if err != nil {
		columns = schema.Columns
		strategies = StrategiesFor(columns)
	}

	visible := w.visibleRecords()
	selectedSet := make(map[string]struct{}, len(w.selected))
	for _, id := range w.selected {
		selectedSet[id] = struct{}{}
	}
	editingID := ""
	if w.editing != nil {
		editingID = w.editing.ID()
	}

	rows := make([]RowView, 0, len(visible))
	anyVisibleSelected := false
	for _, rec := range visible {
		id := rec.ID()
		_, selected := selectedSet[id]
		anyVisibleSelected = anyVisibleSelected || selected
		rows = append(rows, RowView{
			ID:                    id,
			Record:                rec.Clone(),
			Cells:                 renderCells(columns, rec),
			Selected:              selected,
			Editing:               editingID != "" && id == editingID,
			SectionNeedsAttention: w.dataset == models.DatasetBatches && SectionNeedsAttention(rec["section"]),
		})
	}
	allVisible := allSelected(recordIDs(visible), w.selected)

	keys := make([]string, len(columns))
	for i, col := range columns {
		keys[i] = col.Key
	}

	view := WorkspaceView{
		SessionID:          w.id,
		Dataset:            w.dataset,
		Name:               schema.Name,
		Singular:           schema.Singular,
		Columns:            columns,
		Inputs:             FieldInputs(strategies),
		ExpectedColumns:    strings.Join(keys, ", "),
		Loading:            w.inflight > 0,
		Search:             w.search,
		Sort:               w.sort,
		Rows:               rows,
		TotalRecords:       len(w.records),
		VisibleRecords:     len(visible),
		SelectedIDs:        append([]string{}, w.selected...),
		AllVisibleSelected: allVisible,
		Indeterminate:      len(w.selected) > 0 && !allVisible && anyVisibleSelected,
		NoRecords:          w.inflight == 0 && len(w.records) == 0,
		FilteredEmpty:      w.inflight == 0 && len(w.records) > 0 && len(visible) == 0,
		Editing:            w.editing.Clone(),
		Add:                w.addFormView(columns),
		UploadOpen:         w.uploadOpen,
		Report:             w.report,
		Message:            w.message,
		Toast:              w.toast.Current(),
		Confirmation:       w.confirm.Current(),
		Preview:            w.preview,
		LastBulkDelete:     w.lastBulk,
	}
	return view
}

// Snapshot returns the dataset and a copy of its loaded records.
func (w *Workspace) Snapshot() (models.DatasetType, []models.Record) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.Record, len(w.records))
	for i, rec := range w.records {
		out[i] = rec.Clone()
	}
	return w.dataset, out
}

// VisibleRecords returns the searched and sorted records.
func (w *Workspace) VisibleRecords() (models.DatasetType, []models.Record) {
	w.mu.Lock()
	defer w.mu.Unlock()
	visible := w.visibleRecords()
	out := make([]models.Record, len(visible))
	for i, rec := range visible {
		out[i] = rec.Clone()
	}
	return w.dataset, out
}

func (w *Workspace) addFormView(columns []models.ColumnSpec) AddFormView {
	view := AddFormView{Open: w.adding, Draft: w.draft.Clone()}
	if view.Draft == nil {
		view.Draft = models.Record{}
	}
	if col, missing := MissingRequired(columns, w.draft); missing {
		view.MissingField = col.Key
		view.Disabled = true
	}
	if w.dataset == models.DatasetBatches {
		view.SectionIssue = ValidateSection(w.draft["section"])
		if view.SectionIssue != "" {
			view.Disabled = true
		}
	}
	return view
}

// visibleRecords filters by the search term then applies the sort. Callers
// hold the lock.
func (w *Workspace) visibleRecords() []models.Record {
	return FilterAndSort(w.records, w.search, w.sort)
}

// FilterAndSort applies a case-insensitive substring search over every field
// and a stable sort. The input slice is not reordered.
func FilterAndSort(records []models.Record, term string, order SortState) []models.Record {
	needle := strings.ToLower(term)
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if needle == "" || matchesSearch(rec, needle) {
			out = append(out, rec)
		}
	}
	if order.Key == "" {
		return out
	}
	desc := order.Direction == SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		c := compareValues(out[i][order.Key], out[j][order.Key])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func matchesSearch(rec models.Record, needle string) bool {
	for _, value := range rec {
		if strings.Contains(strings.ToLower(format.Stringify(value)), needle) {
			return true
		}
	}
	return false
}

// compareValues orders two cell values numerically when both are numbers and
// by their string form otherwise. Missing values compare as "".
func compareValues(a, b interface{}) int {
	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(format.Stringify(a), format.Stringify(b))
}

func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func renderCells(columns []models.ColumnSpec, rec models.Record) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = format.CellValue(col.Key, rec[col.Key])
	}
	return cells
}

func recordIDs(records []models.Record) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID()
	}
	return ids
}

func allSelected(visible, selected []string) bool {
	if len(visible) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		set[id] = struct{}{}
	}
	for _, id := range visible {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
