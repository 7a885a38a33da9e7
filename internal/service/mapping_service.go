package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/format"
	"github.com/noah-isme/timetable-workspace/pkg/timetableapi"
)

const (
	// MsgMissingYearIdentifier is returned for a blank identifier.
	MsgMissingYearIdentifier = "Please enter a year identifier (e.g., 2024)"
	// MappingAuditDataset tags audit entries for year mapping changes.
	MappingAuditDataset = "batch-year-mapping"
)

type mappingAPI interface {
	YearMapping(ctx context.Context) (models.YearMapping, error)
	ReplaceYearMapping(ctx context.Context, mapping models.YearMapping) error
	AddYearMapping(ctx context.Context, identifier string, level int) error
	RemoveYearMapping(ctx context.Context, identifier string) error
	List(ctx context.Context, ds models.DatasetType) ([]models.Record, error)
}

// MappingService manages the batch year identifier to year level mapping.
type MappingService struct {
	api    mappingAPI
	audit  AuditRecorder
	logger *zap.Logger
}

// NewMappingService constructs the service. audit may be nil.
func NewMappingService(api mappingAPI, audit AuditRecorder, logger *zap.Logger) *MappingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MappingService{api: api, audit: audit, logger: logger}
}

// List returns the raw mapping.
func (s *MappingService) List(ctx context.Context) (models.YearMapping, error) {
	mapping, err := s.api.YearMapping(ctx)
	if err != nil {
		return nil, upstreamError(err, mappingMessage(err, "Error loading mappings"))
	}
	if mapping == nil {
		mapping = models.YearMapping{}
	}
	return mapping, nil
}

// Overview returns mapping entries sorted by identifier with the batches each
// identifier would match. Batches are matched when their name contains the
// identifier; a failed batch lookup leaves the lists empty.
func (s *MappingService) Overview(ctx context.Context) (*models.YearMappingOverview, error) {
	mapping, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := s.api.List(ctx, models.DatasetBatches)
	if err != nil {
		s.logger.Warn("load batches for mapping overview failed", zap.Error(err))
		batches = nil
	}

	identifiers := make([]string, 0, len(mapping))
	for id := range mapping {
		identifiers = append(identifiers, id)
	}
	sort.Strings(identifiers)

	overview := &models.YearMappingOverview{Entries: make([]models.YearMappingEntry, 0, len(identifiers))}
	for _, id := range identifiers {
		level := mapping[id]
		overview.Entries = append(overview.Entries, models.YearMappingEntry{
			YearIdentifier:  id,
			YearLevel:       level,
			LevelName:       YearLevelName(level),
			AffectedBatches: affectedBatches(batches, id),
		})
	}
	return overview, nil
}

// Add maps identifier to level and returns the confirmation text.
func (s *MappingService) Add(ctx context.Context, identifier string, level int) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", validationError(MsgMissingYearIdentifier)
	}
	if level < 1 || level > 4 {
		return "", validationError("Year level must be between 1 and 4")
	}
	if err := s.api.AddYearMapping(ctx, identifier, level); err != nil {
		s.recordChange(ctx, "add", identifier, models.AuditOutcomeFailure)
		return "", upstreamError(err, mappingMessage(err, "Unable to add mapping"))
	}
	s.recordChange(ctx, "add", identifier, models.AuditOutcomeSuccess)
	return fmt.Sprintf("Added mapping: %s → Year %d.", identifier, level), nil
}

// Remove deletes the mapping for identifier.
func (s *MappingService) Remove(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", validationError(MsgMissingYearIdentifier)
	}
	if err := s.api.RemoveYearMapping(ctx, identifier); err != nil {
		s.recordChange(ctx, "remove", identifier, models.AuditOutcomeFailure)
		return "", upstreamError(err, mappingMessage(err, "Unable to remove mapping"))
	}
	s.recordChange(ctx, "remove", identifier, models.AuditOutcomeSuccess)
	return fmt.Sprintf("Removed mapping for %s.", identifier), nil
}

// Replace overwrites the whole mapping.
func (s *MappingService) Replace(ctx context.Context, mapping models.YearMapping) error {
	clean := make(models.YearMapping, len(mapping))
	for id, level := range mapping {
		id = strings.TrimSpace(id)
		if id == "" {
			return validationError(MsgMissingYearIdentifier)
		}
		if level < 1 || level > 4 {
			return validationError(fmt.Sprintf("Year level for %s must be between 1 and 4", id))
		}
		clean[id] = level
	}
	if err := s.api.ReplaceYearMapping(ctx, clean); err != nil {
		s.recordChange(ctx, "replace", "", models.AuditOutcomeFailure)
		return upstreamError(err, mappingMessage(err, "Unable to save mappings"))
	}
	s.recordChange(ctx, "replace", "", models.AuditOutcomeSuccess)
	return nil
}

// YearLevelName names a year level.
func YearLevelName(level int) string {
	switch level {
	case 1:
		return "First Year"
	case 2:
		return "Second Year"
	case 3:
		return "Third Year"
	case 4:
		return "Fourth Year"
	}
	return fmt.Sprintf("Year %d", level)
}

func affectedBatches(batches []models.Record, identifier string) []string {
	out := []string{}
	for _, batch := range batches {
		name := format.Stringify(batch["batchName"])
		if strings.Contains(name, identifier) {
			out = append(out, name)
		}
	}
	return out
}

func mappingMessage(err error, fallback string) string {
	if msg := timetableapi.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}

func (s *MappingService) recordChange(ctx context.Context, op, identifier, outcome string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, AuditEntry{
		SessionID: SessionIDFromContext(ctx),
		Dataset:   MappingAuditDataset,
		Action:    models.AuditActionMapping,
		RecordID:  identifier,
		Outcome:   outcome,
		Details:   map[string]interface{}{"operation": op},
	})
}
