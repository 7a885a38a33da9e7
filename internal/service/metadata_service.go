package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/timetable-workspace/internal/models"
)

const metadataTypesCacheKey = "metadata:types"

type metadataAPI interface {
	MetadataTypes(ctx context.Context) (*models.TypeOptions, error)
	DatasetMetadata(ctx context.Context, ds models.DatasetType) (json.RawMessage, error)
	DatasetStatistics(ctx context.Context, ds models.DatasetType) (json.RawMessage, error)
}

// MetadataService resolves runtime type options and dataset metadata.
type MetadataService struct {
	api    metadataAPI
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
	// loads collapses concurrent cache misses into one upstream call.
	loads singleflight.Group
}

// NewMetadataService constructs the service. cache may be nil.
func NewMetadataService(api metadataAPI, cache *CacheService, ttl time.Duration, logger *zap.Logger) *MetadataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataService{api: api, cache: cache, ttl: ttl, logger: logger}
}

// TypeOptions returns room and course type options. Any failure yields the
// empty bundle so callers keep the registry defaults.
func (s *MetadataService) TypeOptions(ctx context.Context) models.TypeOptions {
	var cached models.TypeOptions
	if s.cache.Get(ctx, metadataTypesCacheKey, &cached) {
		return cached
	}

	v, err, shared := s.loads.Do(metadataTypesCacheKey, func() (interface{}, error) {
		opts, err := s.api.MetadataTypes(ctx)
		if err != nil {
			return nil, err
		}
		if opts == nil {
			return models.TypeOptions{}, nil
		}
		s.cache.Set(ctx, metadataTypesCacheKey, opts, s.ttl)
		return *opts, nil
	})
	if err != nil {
		s.logger.Warn("metadata types unavailable, using defaults", zap.Error(err), zap.Bool("shared", shared))
		return models.TypeOptions{}
	}
	return v.(models.TypeOptions)
}

// Refresh drops cached type options.
func (s *MetadataService) Refresh(ctx context.Context) error {
	return s.cache.Invalidate(ctx, metadataTypesCacheKey)
}

// Schemas lists the dataset schemas resolved against current options.
func (s *MetadataService) Schemas(ctx context.Context) ([]models.DatasetSchema, error) {
	opts := s.TypeOptions(ctx)
	out := Schemas()
	for i := range out {
		columns, err := ResolveColumns(out[i].Type, opts)
		if err != nil {
			return nil, err
		}
		out[i].Columns = columns
	}
	return out, nil
}

// DatasetMetadata proxies the backend column metadata of ds.
func (s *MetadataService) DatasetMetadata(ctx context.Context, ds models.DatasetType) (json.RawMessage, error) {
	if !ds.Valid() {
		return nil, validationError("unknown dataset")
	}
	payload, err := s.api.DatasetMetadata(ctx, ds)
	if err != nil {
		return nil, upstreamError(err, "failed to load dataset metadata")
	}
	return payload, nil
}

// DatasetStatistics proxies the backend statistics of ds.
func (s *MetadataService) DatasetStatistics(ctx context.Context, ds models.DatasetType) (json.RawMessage, error) {
	if !ds.Valid() {
		return nil, validationError("unknown dataset")
	}
	payload, err := s.api.DatasetStatistics(ctx, ds)
	if err != nil {
		return nil, upstreamError(err, "failed to load dataset statistics")
	}
	return payload, nil
}
