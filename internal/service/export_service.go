package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-workspace/internal/models"
	appErrors "github.com/noah-isme/timetable-workspace/pkg/errors"
	"github.com/noah-isme/timetable-workspace/pkg/export"
	"github.com/noah-isme/timetable-workspace/pkg/format"
	"github.com/noah-isme/timetable-workspace/pkg/storage"
)

// Export content types.
const (
	ContentTypeCSV = "text/csv"
	ContentTypePDF = "application/pdf"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(report export.Report) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult describes a stored export and its signed link.
type ExportResult struct {
	Filename  string    `json:"filename"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportDownload is a resolved download link.
type ExportDownload struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders workspace views and analytics into downloadable files.
type ExportService struct {
	storage fileStorage
	signer  *storage.SignedURLSigner
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the pkg/export implementations.
func NewExportService(store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		storage: store,
		signer:  signer,
		csv:     csv,
		pdf:     pdf,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// ExportView writes the visible rows of ws, in display order, as CSV. Headers
// are the schema column keys and values are written unformatted.
func (s *ExportService) ExportView(ctx context.Context, ws *Workspace) (*ExportResult, error) {
	ds, records := ws.VisibleRecords()
	schema, err := Schema(ds)
	if err != nil {
		return nil, err
	}
	table := export.Table{Title: schema.Name, Headers: make([]string, len(schema.Columns))}
	for i, col := range schema.Columns {
		table.Headers[i] = col.Key
	}
	table.Rows = make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(schema.Columns))
		for j, col := range schema.Columns {
			row[j] = format.Stringify(rec[col.Key])
		}
		table.Rows[i] = row
	}

	payload, err := s.csv.Render(table)
	if err != nil {
		return nil, fmt.Errorf("render view csv: %w", err)
	}
	return s.store(string(ds)+"_view", "csv", payload)
}

// ExportReport renders stats as a PDF report.
func (s *ExportService) ExportReport(ctx context.Context, stats *models.Stats) (*ExportResult, error) {
	if stats == nil {
		return nil, validationError("No data available for visualization")
	}
	report := export.Report{
		Title:    fmt.Sprintf("%s Data Statistics", schemaName(stats.Dataset)),
		Subtitle: "Generated " + format.DateTime(s.now()),
	}
	for _, metric := range stats.KeyMetrics {
		report.Metrics = append(report.Metrics, export.Metric{Label: metric.Label, Value: metric.Value})
	}

	quality := export.Table{
		Title:   "Data Quality (Fill Rate per Column)",
		Headers: []string{"Column", "Unique Values", "Blank", "Fill Rate"},
	}
	for _, col := range stats.Columns {
		quality.Rows = append(quality.Rows, []string{
			col.Key,
			strconv.Itoa(col.UniqueValues),
			strconv.Itoa(col.NullCount),
			fmt.Sprintf("%.1f%%", col.FillRate),
		})
	}
	report.Sections = append(report.Sections, quality)

	for _, chart := range stats.Charts {
		section := export.Table{Title: chart.Title, Headers: []string{"Label", "Value"}}
		for _, point := range chart.Points {
			section.Rows = append(section.Rows, []string{point.Label, strconv.FormatFloat(point.Value, 'f', -1, 64)})
		}
		report.Sections = append(report.Sections, section)
	}

	payload, err := s.pdf.Render(report)
	if err != nil {
		return nil, fmt.Errorf("render stats pdf: %w", err)
	}
	return s.store(string(stats.Dataset)+"_stats", "pdf", payload)
}

// ResolveDownload validates token and loads the file it points at.
func (s *ExportService) ResolveDownload(token string) (*ExportDownload, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidDownloadLink.Code, appErrors.ErrInvalidDownloadLink.Status, appErrors.ErrInvalidDownloadLink.Message)
	}
	relPath := claims.Path
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "download no longer available")
	}
	defer file.Close()
	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read download: %w", err)
	}

	filename := path.Base(relPath)
	contentType := ContentTypeCSV
	if strings.HasSuffix(filename, ".pdf") {
		contentType = ContentTypePDF
	}
	return &ExportDownload{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

// Cleanup removes exports older than ttl, or the configured TTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) store(prefix, ext string, payload []byte) (*ExportResult, error) {
	id := uuid.NewString()
	filename := fmt.Sprintf("%s_%s_%s.%s", prefix, s.now().UTC().Format("20060102_150405"), id[:8], ext)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Sign(id, relPath)
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(s.cfg.APIPrefix, "/")
	if base == "" {
		base = "/api/v1"
	}
	s.logger.Info("export stored", zap.String("file", relPath))
	return &ExportResult{
		Filename:  filename,
		Token:     token,
		URL:       fmt.Sprintf("%s/downloads/%s", base, token),
		ExpiresAt: expiresAt,
	}, nil
}
