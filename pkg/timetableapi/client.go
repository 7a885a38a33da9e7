// Package timetableapi is the HTTP client for the timetable backend REST API.
package timetableapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/middleware/requestid"
)

// DefaultBaseURL is used when the config leaves BaseURL empty.
const DefaultBaseURL = "http://localhost:8080/api"

// Config configures the client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the timetable backend. Dataset scoped routes are built the
// same way for every dataset.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// BaseURL exposes the configured root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Error is returned for non-2xx upstream responses.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// List fetches every record of a dataset.
func (c *Client) List(ctx context.Context, ds models.DatasetType) ([]models.Record, error) {
	var records []models.Record
	if err := c.doJSON(ctx, http.MethodGet, datasetPath(ds), nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

// Create posts a new record.
func (c *Client) Create(ctx context.Context, ds models.DatasetType, record models.Record) error {
	return c.doJSON(ctx, http.MethodPost, datasetPath(ds), record, nil)
}

// Update replaces a record with the full object.
func (c *Client) Update(ctx context.Context, ds models.DatasetType, id string, record models.Record) error {
	return c.doJSON(ctx, http.MethodPut, datasetPath(ds, id), record, nil)
}

// Delete removes one record.
func (c *Client) Delete(ctx context.Context, ds models.DatasetType, id string) error {
	return c.doJSON(ctx, http.MethodDelete, datasetPath(ds, id), nil, nil)
}

// Validate asks the backend to check a CSV file without storing it.
func (c *Client) Validate(ctx context.Context, ds models.DatasetType, filename string, content []byte) (*models.ValidationReport, error) {
	var report models.ValidationReport
	if err := c.doMultipart(ctx, datasetPath(ds, "validate"), filename, content, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Upload replaces the dataset with the CSV file and returns the server message.
func (c *Client) Upload(ctx context.Context, ds models.DatasetType, filename string, content []byte) (string, error) {
	var payload map[string]interface{}
	if err := c.doMultipart(ctx, datasetPath(ds, "upload"), filename, content, &payload); err != nil {
		return "", err
	}
	if msg, ok := payload["message"].(string); ok {
		return msg, nil
	}
	return "", nil
}

// Download returns the raw CSV text as stored by the backend.
func (c *Client) Download(ctx context.Context, ds models.DatasetType) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, datasetPath(ds, "download"), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read csv download: %w", err)
	}
	return body, nil
}

// Preview fetches the first rows of the stored CSV plus the total row count.
func (c *Client) Preview(ctx context.Context, ds models.DatasetType, rows int) (*models.Preview, error) {
	path := datasetPath(ds, "preview") + "?rows=" + strconv.Itoa(rows)
	var preview models.Preview
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// DatasetMetadata returns the backend's descriptive metadata for a dataset.
func (c *Client) DatasetMetadata(ctx context.Context, ds models.DatasetType) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, datasetPath(ds, "metadata"), nil)
}

// DatasetStatistics returns the backend's own statistics for a dataset.
func (c *Client) DatasetStatistics(ctx context.Context, ds models.DatasetType) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, datasetPath(ds, "statistics"), nil)
}

// Ping checks that the backend answers. It reads the type enumerations, the
// cheapest endpoint that every backend version serves.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/metadata/types", nil, nil)
}

// MetadataTypes fetches the room and course type enumerations.
func (c *Client) MetadataTypes(ctx context.Context) (*models.TypeOptions, error) {
	var opts models.TypeOptions
	if err := c.doJSON(ctx, http.MethodGet, "/metadata/types", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// YearMapping fetches the batch year mapping.
func (c *Client) YearMapping(ctx context.Context) (models.YearMapping, error) {
	var doc models.YearMappingDocument
	if err := c.doJSON(ctx, http.MethodGet, "/batch-year-mapping", nil, &doc); err != nil {
		return nil, err
	}
	if doc.YearIdentifierToLevel == nil {
		doc.YearIdentifierToLevel = models.YearMapping{}
	}
	return doc.YearIdentifierToLevel, nil
}

// ReplaceYearMapping overwrites the whole mapping.
func (c *Client) ReplaceYearMapping(ctx context.Context, mapping models.YearMapping) error {
	return c.doJSON(ctx, http.MethodPost, "/batch-year-mapping", models.YearMappingDocument{YearIdentifierToLevel: mapping}, nil)
}

// AddYearMapping adds or overwrites one identifier.
func (c *Client) AddYearMapping(ctx context.Context, identifier string, level int) error {
	body := map[string]interface{}{"yearIdentifier": identifier, "yearLevel": level}
	return c.doJSON(ctx, http.MethodPost, "/batch-year-mapping/add", body, nil)
}

// RemoveYearMapping deletes one identifier.
func (c *Client) RemoveYearMapping(ctx context.Context, identifier string) error {
	return c.doJSON(ctx, http.MethodDelete, "/batch-year-mapping/"+url.PathEscape(identifier), nil, nil)
}

// SolverConfig returns the opaque solver configuration.
func (c *Client) SolverConfig(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/solver/config", nil)
}

// UpdateSolverConfig posts an opaque solver configuration.
func (c *Client) UpdateSolverConfig(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/solver/config", cfg)
}

// TimeSlotConfig returns the opaque time slot configuration.
func (c *Client) TimeSlotConfig(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/timeslots/config", nil)
}

// UpdateTimeSlotConfig posts an opaque time slot configuration.
func (c *Client) UpdateTimeSlotConfig(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/timeslots/config", cfg)
}

// ResetTimeSlotConfig restores the backend default time slots.
func (c *Client) ResetTimeSlotConfig(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/timeslots/config/reset", nil)
}

// Timetable returns the current generated timetable.
func (c *Client) Timetable(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodGet, "/timetable", nil)
}

// GenerateTimetable starts the solver with an opaque configuration.
func (c *Client) GenerateTimetable(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error) {
	return c.raw(ctx, http.MethodPost, "/timetable/generate", cfg)
}

// TimetableFor returns lessons scoped to a batch, faculty member or room.
func (c *Client) TimetableFor(ctx context.Context, scope, id string) (json.RawMessage, error) {
	switch scope {
	case "batch", "faculty", "room":
	default:
		return nil, fmt.Errorf("unsupported timetable scope %q", scope)
	}
	return c.raw(ctx, http.MethodGet, "/timetable/"+scope+"/"+url.PathEscape(id), nil)
}

func datasetPath(ds models.DatasetType, segments ...string) string {
	path := "/" + url.PathEscape(string(ds))
	for _, segment := range segments {
		path += "/" + url.PathEscape(segment)
	}
	return path
}

func (c *Client) raw(ctx context.Context, method, path string, body json.RawMessage) (json.RawMessage, error) {
	var reader io.Reader
	contentType := ""
	if len(body) > 0 {
		reader = bytes.NewReader(body)
		contentType = "application/json"
	}
	resp, err := c.send(ctx, method, path, reader, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(payload), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	resp, err := c.send(ctx, method, path, reader, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, path, dest)
}

func (c *Client) doMultipart(ctx context.Context, path, filename string, content []byte, dest interface{}) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}
	resp, err := c.send(ctx, http.MethodPost, path, body, writer.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, path, dest)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, text/csv;q=0.9")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &Error{Method: method, Path: path, Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, payload)}
	}
	return resp, nil
}

func decode(resp *http.Response, path string, dest interface{}) error {
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// errorMessage prefers the backend's message or error field over the raw body.
func errorMessage(status int, payload []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(payload)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(status)
}

// MessageOf returns the upstream message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
