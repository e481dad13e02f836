package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eugenenazirov/seahub-overlay/internal/render"
	"github.com/eugenenazirov/seahub-overlay/internal/settings"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler serves a read-only view of one assembled settings snapshot.
// Secret values are redacted before they reach any response.
type Handler struct {
	entries     []settings.Setting
	index       map[string]int
	officeOn    bool
	assembledAt time.Time

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler over the entries of s.
func NewHandler(s *settings.Settings, opts ...HandlerOption) *Handler {
	h := &Handler{
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	h.entries = render.Redact(s.Entries())
	h.index = make(map[string]int, len(h.entries))
	for i, entry := range h.entries {
		h.index[entry.Name] = i
	}
	h.officeOn = s.Office != nil
	h.assembledAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:      "ok",
		Timestamp:   h.clock(),
		AssembledAt: h.assembledAt,
		Settings:    len(h.entries),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	_ = r
	body, err := render.MarshalJSON(h.entries)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := settingsResponse{
		Settings:     body,
		OfficeWebApp: h.officeOn,
		AssembledAt:  h.assembledAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	i, ok := h.index[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown setting", "no setting named "+name+" is defined",
			"GET /api/settings lists every defined setting")
		return
	}

	entry := h.entries[i]
	value, err := render.MarshalValueJSON(entry.Value)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := settingResponse{
		Name:   entry.Name,
		Value:  value,
		Secret: entry.Secret,
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type settingsResponse struct {
	Settings     json.RawMessage `json:"settings"`
	OfficeWebApp bool            `json:"officeWebApp"`
	AssembledAt  time.Time       `json:"assembledAt"`
}

type settingResponse struct {
	Name   string          `json:"name"`
	Value  json.RawMessage `json:"value"`
	Secret bool            `json:"secret"`
}

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	AssembledAt time.Time `json:"assembledAt"`
	Settings    int       `json:"settings"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
