package models

// FrequencyEntry counts one canonical value within a column.
type FrequencyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnStats summarises one column.
type ColumnStats struct {
	Key          string           `json:"key"`
	UniqueValues int              `json:"uniqueValues"`
	NullCount    int              `json:"nullCount"`
	FillRate     float64          `json:"fillRate"`
	Healthy      bool             `json:"healthy"`
	Frequencies  []FrequencyEntry `json:"frequencies"`
}

// KeyMetric is an overview card.
type KeyMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChartKind selects the renderer for a chart.
type ChartKind string

const (
	ChartPie           ChartKind = "pie"
	ChartBar           ChartKind = "bar"
	ChartHorizontalBar ChartKind = "horizontal_bar"
	ChartArea          ChartKind = "area"
)

// ChartPoint is a labelled value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is a dataset-specific visualisation.
type Chart struct {
	Title  string       `json:"title"`
	Kind   ChartKind    `json:"kind"`
	Points []ChartPoint `json:"points"`
}

// Stats is the analytics panel payload.
type Stats struct {
	Dataset      DatasetType   `json:"dataset"`
	TotalRows    int           `json:"totalRows"`
	TotalColumns int           `json:"totalColumns"`
	TotalCells   int           `json:"totalCells"`
	BlankCells   int           `json:"blankCells"`
	Completeness float64       `json:"completeness"`
	Healthy      bool          `json:"healthy"`
	Columns      []ColumnStats `json:"columns"`
	KeyMetrics   []KeyMetric   `json:"keyMetrics"`
	Charts       []Chart       `json:"charts"`
}

// DatasetCounts holds the row count of every dataset.
type DatasetCounts map[DatasetType]int
