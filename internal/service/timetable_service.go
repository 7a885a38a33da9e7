package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

type timetableAPI interface {
	SolverConfig(ctx context.Context) (json.RawMessage, error)
	UpdateSolverConfig(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error)
	TimeSlotConfig(ctx context.Context) (json.RawMessage, error)
	UpdateTimeSlotConfig(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error)
	ResetTimeSlotConfig(ctx context.Context) (json.RawMessage, error)
	Timetable(ctx context.Context) (json.RawMessage, error)
	GenerateTimetable(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error)
	TimetableFor(ctx context.Context, scope, id string) (json.RawMessage, error)
}

// Timetable scopes accepted by TimetableFor.
const (
	ScopeBatch   = "batch"
	ScopeFaculty = "faculty"
	ScopeRoom    = "room"
)

// TimetableService relays solver, time slot and timetable payloads without
// interpreting them.
type TimetableService struct {
	api    timetableAPI
	logger *zap.Logger
}

// NewTimetableService constructs the service.
func NewTimetableService(api timetableAPI, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{api: api, logger: logger}
}

// SolverConfig returns the solver configuration.
func (s *TimetableService) SolverConfig(ctx context.Context) (json.RawMessage, error) {
	return s.relay("load solver config", "Failed to load solver configuration", func() (json.RawMessage, error) {
		return s.api.SolverConfig(ctx)
	})
}

// UpdateSolverConfig saves the solver configuration.
func (s *TimetableService) UpdateSolverConfig(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error) {
	if err := requireObject(cfg); err != nil {
		return nil, err
	}
	return s.relay("save solver config", "Failed to save solver configuration", func() (json.RawMessage, error) {
		return s.api.UpdateSolverConfig(ctx, cfg)
	})
}

// TimeSlotConfig returns the time slot configuration.
func (s *TimetableService) TimeSlotConfig(ctx context.Context) (json.RawMessage, error) {
	return s.relay("load timeslot config", "Failed to load time slot configuration", func() (json.RawMessage, error) {
		return s.api.TimeSlotConfig(ctx)
	})
}

// UpdateTimeSlotConfig saves the time slot configuration.
func (s *TimetableService) UpdateTimeSlotConfig(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error) {
	if err := requireObject(cfg); err != nil {
		return nil, err
	}
	return s.relay("save timeslot config", "Failed to save time slot configuration", func() (json.RawMessage, error) {
		return s.api.UpdateTimeSlotConfig(ctx, cfg)
	})
}

// ResetTimeSlotConfig restores the default time slots.
func (s *TimetableService) ResetTimeSlotConfig(ctx context.Context) (json.RawMessage, error) {
	return s.relay("reset timeslot config", "Failed to reset time slot configuration", func() (json.RawMessage, error) {
		return s.api.ResetTimeSlotConfig(ctx)
	})
}

// Timetable returns the latest generated timetable.
func (s *TimetableService) Timetable(ctx context.Context) (json.RawMessage, error) {
	return s.relay("load timetable", "Failed to load timetable", func() (json.RawMessage, error) {
		return s.api.Timetable(ctx)
	})
}

// Generate starts a solver run. An empty cfg is sent as an empty object.
func (s *TimetableService) Generate(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error) {
	if len(cfg) == 0 {
		cfg = json.RawMessage(`{}`)
	}
	if err := requireObject(cfg); err != nil {
		return nil, err
	}
	return s.relay("generate timetable", "Failed to generate timetable", func() (json.RawMessage, error) {
		return s.api.GenerateTimetable(ctx, cfg)
	})
}

// TimetableFor returns the lessons of one batch, faculty member or room.
func (s *TimetableService) TimetableFor(ctx context.Context, scope, id string) (json.RawMessage, error) {
	switch scope {
	case ScopeBatch, ScopeFaculty, ScopeRoom:
	default:
		return nil, validationError("scope must be batch, faculty or room")
	}
	if strings.TrimSpace(id) == "" {
		return nil, validationError("id is required")
	}
	return s.relay("load scoped timetable", "Failed to load timetable", func() (json.RawMessage, error) {
		return s.api.TimetableFor(ctx, scope, id)
	})
}

func (s *TimetableService) relay(op, message string, call func() (json.RawMessage, error)) (json.RawMessage, error) {
	payload, err := call()
	if err != nil {
		s.logger.Warn(op+" failed", zap.Error(err))
		return nil, upstreamError(err, mappingMessage(err, message))
	}
	if len(payload) == 0 {
		payload = json.RawMessage(`null`)
	}
	return payload, nil
}

func requireObject(raw json.RawMessage) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return validationError("configuration must be a JSON object")
	}
	return nil
}
