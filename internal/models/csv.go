package models

// ValidationReport is the server verdict for a CSV file.
type ValidationReport struct {
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	RowCount    int      `json:"rowCount,omitempty"`
	ColumnCount int      `json:"columnCount,omitempty"`
}

// Preview is a row-limited raw snapshot of the stored CSV.
type Preview struct {
	Headers   []string        `json:"headers"`
	Data      [][]interface{} `json:"data"`
	TotalRows int             `json:"totalRows"`
}

// PreviewRowOptions are the selectable preview sizes.
var PreviewRowOptions = []int{5, 10, 25, 50, 100}

// DefaultPreviewRows is used when the dialog opens without a size.
const DefaultPreviewRows = 10

// ValidPreviewRows reports whether n is a selectable preview size.
func ValidPreviewRows(n int) bool {
	for _, opt := range PreviewRowOptions {
		if opt == n {
			return true
		}
	}
	return false
}

// PreviewState is the dialog state rendered by clients.
type PreviewState struct {
	Open    bool        `json:"open"`
	Dataset DatasetType `json:"dataset"`
	Rows    int         `json:"rows"`
	Loading bool        `json:"loading"`
	Data    *Preview    `json:"data,omitempty"`
	Caption string      `json:"caption,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Download is a CSV payload ready to be saved by the client.
type Download struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
}
