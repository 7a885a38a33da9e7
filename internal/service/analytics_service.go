package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/format"
)

// HealthyThreshold is the fill rate, in percent, above which data counts as healthy.
const HealthyThreshold = 90.0

const maxBatchBars = 20

type recordLister interface {
	List(ctx context.Context, ds models.DatasetType) ([]models.Record, error)
}

// AnalyticsService computes dataset statistics.
type AnalyticsService struct {
	api    recordLister
	logger *zap.Logger
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(api recordLister, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{api: api, logger: logger}
}

// ForWorkspace computes statistics over every record loaded in ws. It returns
// nil when nothing is loaded.
func (s *AnalyticsService) ForWorkspace(ws *Workspace) *models.Stats {
	ds, records := ws.Snapshot()
	return ComputeStats(ds, records)
}

// ForDataset fetches ds and computes its statistics.
func (s *AnalyticsService) ForDataset(ctx context.Context, ds models.DatasetType) (*models.Stats, error) {
	if !ds.Valid() {
		return nil, validationError("unknown dataset")
	}
	records, err := s.api.List(ctx, ds)
	if err != nil {
		return nil, upstreamError(err, fmt.Sprintf("Failed to load %s", schemaName(ds)))
	}
	return ComputeStats(ds, records), nil
}

// Counts returns the row count of all datasets, fetched concurrently.
func (s *AnalyticsService) Counts(ctx context.Context) (models.DatasetCounts, error) {
	var mu sync.Mutex
	counts := make(models.DatasetCounts, len(models.DatasetTypes))
	g, gctx := errgroup.WithContext(ctx)
	for _, ds := range models.DatasetTypes {
		ds := ds
		g.Go(func() error {
			records, err := s.api.List(gctx, ds)
			if err != nil {
				return upstreamError(err, fmt.Sprintf("Failed to load %s", schemaName(ds)))
			}
			mu.Lock()
			counts[ds] = len(records)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("dataset counts failed", zap.Error(err))
		return nil, err
	}
	return counts, nil
}

// ComputeStats summarises records. Columns come from the first record,
// ordered by the dataset schema with unknown keys appended alphabetically.
// Empty input yields nil.
func ComputeStats(ds models.DatasetType, records []models.Record) *models.Stats {
	if len(records) == 0 {
		return nil
	}
	columns := statColumns(ds, records[0])
	rows := len(records)
	stats := &models.Stats{
		Dataset:      ds,
		TotalRows:    rows,
		TotalColumns: len(columns),
		TotalCells:   rows * len(columns),
		Columns:      make([]models.ColumnStats, 0, len(columns)),
	}

	byKey := make(map[string]models.ColumnStats, len(columns))
	for _, key := range columns {
		col := columnStats(key, records)
		stats.BlankCells += col.NullCount
		stats.Columns = append(stats.Columns, col)
		byKey[key] = col
	}
	if stats.TotalCells > 0 {
		stats.Completeness = float64(stats.TotalCells-stats.BlankCells) / float64(stats.TotalCells) * 100
	}
	stats.Healthy = stats.Completeness > HealthyThreshold

	stats.KeyMetrics = []models.KeyMetric{
		{Label: "Total Rows", Value: strconv.Itoa(stats.TotalRows)},
		{Label: "Columns", Value: strconv.Itoa(stats.TotalColumns)},
		{Label: "Data Points", Value: strconv.Itoa(stats.TotalCells)},
		{Label: "Completeness", Value: fmt.Sprintf("%.1f%%", stats.Completeness)},
	}
	stats.Charts = datasetCharts(ds, records, byKey)
	return stats
}

func statColumns(ds models.DatasetType, first models.Record) []string {
	out := make([]string, 0, len(first))
	seen := make(map[string]bool, len(first))
	if schema, ok := registry[ds]; ok {
		for _, col := range schema.Columns {
			if _, present := first[col.Key]; present {
				out = append(out, col.Key)
				seen[col.Key] = true
			}
		}
	}
	extras := make([]string, 0)
	for key := range first {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}

func columnStats(key string, records []models.Record) models.ColumnStats {
	counts := make(map[string]int)
	order := make([]string, 0)
	blanks := 0
	for _, rec := range records {
		value := rec[key]
		if emptyCell(value) {
			blanks++
		}
		canonical := format.Stringify(value)
		if _, ok := counts[canonical]; !ok {
			order = append(order, canonical)
		}
		counts[canonical]++
	}

	rows := len(records)
	fill := float64(rows-blanks) / float64(rows) * 100
	col := models.ColumnStats{
		Key:          key,
		UniqueValues: len(counts),
		NullCount:    blanks,
		FillRate:     fill,
		Healthy:      fill > HealthyThreshold,
		Frequencies:  make([]models.FrequencyEntry, 0, len(order)),
	}
	for _, value := range frequencyOrder(order) {
		col.Frequencies = append(col.Frequencies, models.FrequencyEntry{Value: value, Count: counts[value]})
	}
	return col
}

// frequencyOrder puts non-negative integer values first in ascending order,
// then everything else by first appearance.
func frequencyOrder(values []string) []string {
	var ints, rest []string
	for _, v := range values {
		if _, err := strconv.ParseUint(v, 10, 32); err == nil && (v == "0" || v[0] != '0') {
			ints = append(ints, v)
		} else {
			rest = append(rest, v)
		}
	}
	sort.SliceStable(ints, func(i, j int) bool {
		a, _ := strconv.ParseUint(ints[i], 10, 32)
		b, _ := strconv.ParseUint(ints[j], 10, 32)
		return a < b
	})
	return append(ints, rest...)
}

func emptyCell(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func datasetCharts(ds models.DatasetType, records []models.Record, cols map[string]models.ColumnStats) []models.Chart {
	switch ds {
	case models.DatasetCourses:
		return []models.Chart{
			frequencyChart("Course Types Distribution", models.ChartPie, cols["courseType"], "%s"),
			frequencyChart("Credits Distribution", models.ChartBar, cols["credits"], "%s Credits"),
		}
	case models.DatasetRooms:
		return []models.Chart{
			frequencyChart("Room Types", models.ChartPie, cols["roomType"], "%s"),
			capacityCurve(records),
		}
	case models.DatasetFaculty:
		return []models.Chart{
			frequencyChart("Workload Limits (Max Hours/Day)", models.ChartBar, cols["maxHoursPerDay"], "%s Hours"),
		}
	case models.DatasetBatches:
		return []models.Chart{
			studentsPerBatch(records),
			frequencyChart("Batches by Year", models.ChartPie, cols["year"], "Year %s"),
		}
	}
	return nil
}

func frequencyChart(title string, kind models.ChartKind, col models.ColumnStats, label string) models.Chart {
	chart := models.Chart{Title: title, Kind: kind, Points: []models.ChartPoint{}}
	for _, entry := range col.Frequencies {
		if entry.Value == "" {
			continue
		}
		chart.Points = append(chart.Points, models.ChartPoint{
			Label: fmt.Sprintf(label, entry.Value),
			Value: float64(entry.Count),
		})
	}
	return chart
}

func capacityCurve(records []models.Record) models.Chart {
	chart := models.Chart{Title: "Capacity Distribution", Kind: models.ChartArea, Points: []models.ChartPoint{}}
	for _, rec := range records {
		capacity, ok := chartNumber(rec["capacity"])
		if !ok {
			continue
		}
		chart.Points = append(chart.Points, models.ChartPoint{Label: format.Stringify(rec["roomNumber"]), Value: capacity})
	}
	sort.SliceStable(chart.Points, func(i, j int) bool {
		return chart.Points[i].Value < chart.Points[j].Value
	})
	return chart
}

func studentsPerBatch(records []models.Record) models.Chart {
	chart := models.Chart{Title: "Students per Batch", Kind: models.ChartHorizontalBar, Points: []models.ChartPoint{}}
	for i, rec := range records {
		if i == maxBatchBars {
			break
		}
		students, _ := chartNumber(rec["studentCount"])
		chart.Points = append(chart.Points, models.ChartPoint{Label: format.Stringify(rec["batchName"]), Value: students})
	}
	return chart
}

func chartNumber(v interface{}) (float64, bool) {
	if n, ok := numericValue(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
