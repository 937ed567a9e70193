// Package api exposes HTTP handlers for members and workout sessions.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"example.com/fitnesscenter/internal/domain"
)

const (
	maxBodyBytes   = 1 << 20
	readinessLimit = 2 * time.Second
)

// ReadinessCheck reports whether the storage backend is reachable.
type ReadinessCheck func(ctx context.Context) error

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	ready   ReadinessCheck
	logger  *slog.Logger
}

// Option customises a Handler.
type Option func(*Handler)

// WithReadiness sets the check behind /readyz.
func WithReadiness(check ReadinessCheck) Option {
	return func(h *Handler) {
		h.ready = check
	}
}

// WithLogger overrides the handler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, opts ...Option) *Handler {
	h := &Handler{service: service, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "api")
	return h
}

// RegisterRoutes wires endpoints to the router. Ids are matched as digits only,
// so non-numeric ids fall through to the not-found handler.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	})

	r.Get("/healthz", healthz)
	r.Get("/readyz", h.readyz)

	r.Post("/members", h.createMember)
	r.Get("/members/{id:[0-9]+}", h.getMember)
	r.Put("/members/{id:[0-9]+}", h.updateMember)
	r.Delete("/members/{id:[0-9]+}", h.deleteMember)

	r.Post("/workouts", h.scheduleWorkout)
	r.Get("/workouts", h.listWorkouts)
	r.Get("/workouts/member/{memberID:[0-9]+}", h.listMemberWorkouts)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessLimit)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *Handler) createMember(w http.ResponseWriter, r *http.Request) {
	var req MemberRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	member, err := h.service.CreateMember(r.Context(), req.Input())
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Member added successfully", ID: member.ID})
}

func (h *Handler) getMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	member, err := h.service.GetMember(r.Context(), id)
	if err != nil {
		h.writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberView(*member))
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req MemberRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if _, err := h.service.UpdateMember(r.Context(), id, req.Input()); err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Member updated successfully"})
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteMember(r.Context(), id); err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Member deleted successfully"})
}

func (h *Handler) scheduleWorkout(w http.ResponseWriter, r *http.Request) {
	var req ScheduleWorkoutRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	session, err := h.service.ScheduleWorkout(r.Context(), req.Input())
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Workout session scheduled successfully", ID: session.ID})
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.ListWorkouts(r.Context())
	if err != nil {
		h.writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutSessionViews(sessions))
}

func (h *Handler) listMemberWorkouts(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "memberID")
	if !ok {
		return
	}

	sessions, err := h.service.ListWorkoutsForMember(r.Context(), memberID)
	if err != nil {
		h.writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutSessionViews(sessions))
}

// writeMutationError maps write-path failures. Storage refusals are client errors.
func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	var (
		constraint *domain.ConstraintError
		conn       *domain.ConnectionError
	)
	switch {
	case errors.Is(err, domain.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "not_found", "member not found")
	case errors.As(err, &constraint):
		h.logger.Warn("storage rejected write", "error", err)
		writeError(w, http.StatusBadRequest, "constraint_violation", constraint.Message)
	case errors.As(err, &conn):
		h.logger.Error("storage unavailable", "error", err)
		writeError(w, http.StatusBadRequest, "storage_unavailable", conn.Error())
	default:
		h.logger.Error("write failed", "error", err)
		writeError(w, http.StatusBadRequest, "storage_error", err.Error())
	}
}

func (h *Handler) writeReadError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrMemberNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "member not found")
		return
	}
	h.logger.Error("read failed", "error", err)
	writeError(w, http.StatusInternalServerError, "server_error", err.Error())
}

type validatable interface {
	Validate() error
}

// decodeRequest parses and validates a JSON body, writing the 400 itself on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, req validatable) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(req); err != nil {
		detail := "unable to parse body"
		if errors.Is(err, io.EOF) {
			detail = "request body is required"
		}
		writeError(w, http.StatusBadRequest, "invalid_request", detail)
		return false
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return false
	}
	return true
}

// pathID reads a digit-only route parameter. Values that overflow int64 cannot name a row.
func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
