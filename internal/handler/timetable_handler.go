package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-workspace/pkg/response"
)

type timetableProvider interface {
	SolverConfig(ctx context.Context) (json.RawMessage, error)
	UpdateSolverConfig(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error)
	TimeSlotConfig(ctx context.Context) (json.RawMessage, error)
	UpdateTimeSlotConfig(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error)
	ResetTimeSlotConfig(ctx context.Context) (json.RawMessage, error)
	Timetable(ctx context.Context) (json.RawMessage, error)
	Generate(ctx context.Context, cfg json.RawMessage) (json.RawMessage, error)
	TimetableFor(ctx context.Context, scope, id string) (json.RawMessage, error)
}

// TimetableHandler relays solver, time slot and timetable payloads.
type TimetableHandler struct {
	timetable timetableProvider
}

// NewTimetableHandler constructs the pass-through handler.
func NewTimetableHandler(timetable timetableProvider) *TimetableHandler {
	return &TimetableHandler{timetable: timetable}
}

// SolverConfig godoc
// @Summary Current solver configuration
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /solver-config [get]
func (h *TimetableHandler) SolverConfig(c *gin.Context) {
	h.relay(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.timetable.SolverConfig(ctx)
	})
}

// UpdateSolverConfig godoc
// @Summary Replace the solver configuration
// @Tags Timetable
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /solver-config [put]
func (h *TimetableHandler) UpdateSolverConfig(c *gin.Context) {
	body, ok := rawBody(c)
	if !ok {
		return
	}
	h.relay(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.timetable.UpdateSolverConfig(ctx, body)
	})
}

// TimeSlotConfig godoc
// @Summary Current time slot configuration
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeslot-config [get]
func (h *TimetableHandler) TimeSlotConfig(c *gin.Context) {
	h.relay(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.timetable.TimeSlotConfig(ctx)
	})
}

// UpdateTimeSlotConfig godoc
// @Summary Replace the time slot configuration
// @Tags Timetable
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeslot-config [put]
func (h *TimetableHandler) UpdateTimeSlotConfig(c *gin.Context) {
	body, ok := rawBody(c)
	if !ok {
		return
	}
	h.relay(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.timetable.UpdateTimeSlotConfig(ctx, body)
	})
}

// ResetTimeSlotConfig godoc
// @Summary Restore the default time slot configuration
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeslot-config/reset [post]
func (h *TimetableHandler) ResetTimeSlotConfig(c *gin.Context) {
	h.relay(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.timetable.ResetTimeSlotConfig(ctx)
	})
}

// Timetable godoc
// @Summary Latest generated timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Timetable(c *gin.Context) {
	h.relay(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.timetable.Timetable(ctx)
	})
}

// Generate godoc
// @Summary Run the solver
// @Tags Timetable
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	body, ok := rawBody(c)
	if !ok {
		return
	}
	h.relay(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.timetable.Generate(ctx, body)
	})
}

// TimetableFor godoc
// @Summary Timetable of one batch, faculty member or room
// @Tags Timetable
// @Produce json
// @Param scope path string true "Scope" Enums(batch, faculty, room)
// @Param id path string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable/{scope}/{id} [get]
func (h *TimetableHandler) TimetableFor(c *gin.Context) {
	scope, id := c.Param("scope"), c.Param("id")
	h.relay(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.timetable.TimetableFor(ctx, scope, id)
	})
}

func (h *TimetableHandler) relay(c *gin.Context, call func(ctx context.Context) (json.RawMessage, error)) {
	payload, err := call(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload)
}

// Register mounts the pass-through routes.
func (h *TimetableHandler) Register(root *gin.RouterGroup) {
	root.GET("/solver-config", h.SolverConfig)
	root.PUT("/solver-config", h.UpdateSolverConfig)
	root.GET("/timeslot-config", h.TimeSlotConfig)
	root.PUT("/timeslot-config", h.UpdateTimeSlotConfig)
	root.POST("/timeslot-config/reset", h.ResetTimeSlotConfig)
	root.GET("/timetable", h.Timetable)
	root.POST("/timetable/generate", h.Generate)
	root.GET("/timetable/:scope/:id", h.TimetableFor)
}

func rawBody(c *gin.Context) (json.RawMessage, bool) {
	if c.Request.Body == nil {
		return nil, true
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, bindFailure(err, "unable to read request body"))
		return nil, false
	}
	return json.RawMessage(body), true
}
