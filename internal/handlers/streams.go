package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"askstream/internal/dashboard"
	"askstream/internal/telemetry"
	"askstream/internal/viewmodel"
	"askstream/pkg/realtime"
	"askstream/views"
)

const (
	sessionCookieName = "askstream_session"
	defaultKeepAlive  = 25 * time.Second
)

type StreamsHandler struct {
	store     *dashboard.Store
	logger    *slog.Logger
	cookieTTL time.Duration
	keepAlive time.Duration
}

func NewStreamsHandler(store *dashboard.Store, logger *slog.Logger, cookieTTL time.Duration) *StreamsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if cookieTTL <= 0 {
		cookieTTL = 24 * time.Hour
	}
	return &StreamsHandler{store: store, logger: logger, cookieTTL: cookieTTL, keepAlive: defaultKeepAlive}
}

// RegisterRoutes mounts the page, fragment and action routes.
func (h *StreamsHandler) RegisterRoutes(r chi.Router) {
	r.Route(dashboard.StreamsPath, func(r chi.Router) {
		r.Get("/", h.page)
		r.Get("/stack", h.stackFragment)
		r.Post("/stack/click", h.click)
		r.Post("/stack/drag", h.drag)
		r.Post("/stack/key", h.key)
		r.Post("/reload", h.reload)
	})
	r.Post("/sidebar/toggle", h.toggleSidebar)
	r.Post("/sidebar/mobile", h.toggleMobile)
	r.Post("/bookmarks/{id}", h.selectBookmark)
	r.Post("/history/items/{id}", h.selectHistoryItem)
	r.Post("/history/groups/{id}/toggle", h.toggleHistoryGroup)
	r.Post("/history/dialog/open", h.openHistoryDialog)
	r.Post("/history/dialog/close", h.closeHistoryDialog)
}

// RegisterStream mounts the long-lived event stream. It is kept apart from
// RegisterRoutes so request timeouts do not apply to it.
func (h *StreamsHandler) RegisterStream(r chi.Router) {
	r.Get(dashboard.StreamsPath+"/events", h.stream)
}

func (h *StreamsHandler) page(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	data := viewmodel.StreamsPage{
		Title:     "Ask Stream",
		Dashboard: buildDashboard(session.Snapshot()),
	}
	render(w, r, views.StreamsPage(data))
}

func (h *StreamsHandler) stackFragment(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	render(w, r, views.StackFragment(buildStackFragment(session.Snapshot())))
}

func (h *StreamsHandler) click(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	position, err := strconv.Atoi(strings.TrimSpace(r.FormValue("position")))
	if err != nil {
		http.Error(w, "invalid position", http.StatusBadRequest)
		return
	}
	_, span := telemetry.StartInteraction(r.Context(), session.ID, "click", attribute.Int("askstream.position", position))
	changed := session.ClickCard(position)
	telemetry.EndInteraction(span, changed, session.StackIDs())
	h.stackChanged(w, r, session, "click", changed)
}

func (h *StreamsHandler) drag(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	offsetX, err := parseOffset(r.FormValue("offsetX"))
	if err != nil {
		http.Error(w, "invalid offsetX", http.StatusBadRequest)
		return
	}
	offsetY, err := parseFinite(r.FormValue("offsetY"))
	if err != nil {
		http.Error(w, "invalid offsetY", http.StatusBadRequest)
		return
	}
	_, span := telemetry.StartInteraction(r.Context(), session.ID, "drag",
		attribute.Float64("askstream.offset_x", offsetX),
		attribute.Float64("askstream.offset_y", offsetY),
	)
	changed := session.ReleaseDrag(offsetX, offsetY)
	telemetry.EndInteraction(span, changed, session.StackIDs())
	h.stackChanged(w, r, session, "drag", changed)
}

func (h *StreamsHandler) key(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	key := strings.TrimSpace(r.FormValue("key"))
	if key == "" {
		http.Error(w, "key required", http.StatusBadRequest)
		return
	}
	_, span := telemetry.StartInteraction(r.Context(), session.ID, "key", attribute.String("askstream.key", key))
	_, changed := session.ApplyKey(key)
	telemetry.EndInteraction(span, changed, session.StackIDs())
	h.stackChanged(w, r, session, "key", changed)
}

func (h *StreamsHandler) stackChanged(w http.ResponseWriter, r *http.Request, session *dashboard.Session, kind string, changed bool) {
	h.logger.Debug("stack interaction", "session", session.ID, "event", kind, "changed", changed)
	if changed {
		h.store.Publish(session.ID, dashboard.EventStack)
	}
	if !isHTMX(r) {
		http.Redirect(w, r, dashboard.StreamsPath, http.StatusSeeOther)
		return
	}
	render(w, r, views.StackFragment(buildStackFragment(session.Snapshot())))
}

func (h *StreamsHandler) reload(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	h.store.Reload(session.ID)
	h.logger.Info("reloading data", "session", session.ID)
	h.dashboardChanged(w, r, session)
}

func (h *StreamsHandler) toggleSidebar(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	session.ToggleSidebar()
	h.dashboardChanged(w, r, session)
}

func (h *StreamsHandler) toggleMobile(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	session.ToggleMobile()
	h.dashboardChanged(w, r, session)
}

func (h *StreamsHandler) selectBookmark(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if err := session.SelectBookmark(chi.URLParam(r, "id")); err != nil {
		h.actionError(w, r, err)
		return
	}
	h.dashboardChanged(w, r, session)
}

func (h *StreamsHandler) selectHistoryItem(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if err := session.SelectHistoryItem(chi.URLParam(r, "id")); err != nil {
		h.actionError(w, r, err)
		return
	}
	h.dashboardChanged(w, r, session)
}

func (h *StreamsHandler) toggleHistoryGroup(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if err := session.ToggleHistoryGroup(chi.URLParam(r, "id")); err != nil {
		h.actionError(w, r, err)
		return
	}
	h.dashboardChanged(w, r, session)
}

func (h *StreamsHandler) openHistoryDialog(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	session.OpenHistoryDialog()
	h.dashboardChanged(w, r, session)
}

func (h *StreamsHandler) closeHistoryDialog(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	session.CloseHistoryDialog()
	h.dashboardChanged(w, r, session)
}

func (h *StreamsHandler) dashboardChanged(w http.ResponseWriter, r *http.Request, session *dashboard.Session) {
	h.store.Publish(session.ID, dashboard.EventDashboard)
	if !isHTMX(r) {
		http.Redirect(w, r, dashboard.StreamsPath, http.StatusSeeOther)
		return
	}
	render(w, r, views.DashboardFragment(buildDashboard(session.Snapshot())))
}

func (h *StreamsHandler) actionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dashboard.ErrUnknownBookmark),
		errors.Is(err, dashboard.ErrUnknownHistoryItem),
		errors.Is(err, dashboard.ErrUnknownHistoryGroup):
		h.logger.Warn("unknown id", "path", r.URL.Path, "err", err)
		renderError(w, r, http.StatusNotFound)
	default:
		h.logger.Error("action failed", "path", r.URL.Path, "err", err)
		renderError(w, r, http.StatusInternalServerError)
	}
}

func (h *StreamsHandler) stream(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub, ok := h.store.Broadcaster(session.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer sub.Close()
	unmount := session.MountStack()
	defer unmount()
	h.logger.Debug("stream connected", "session", session.ID)
	defer h.logger.Debug("stream closed", "session", session.ID)

	send := func(event realtime.Event) {
		snapshot := session.Snapshot()
		switch event {
		case dashboard.EventDashboard:
			writeSSE(w, string(event), renderToString(r, views.DashboardFragment(buildDashboard(snapshot))))
		case dashboard.EventStack:
			writeSSE(w, string(event), renderToString(r, views.StackFragment(buildStackFragment(snapshot))))
		default:
			return
		}
		flusher.Flush()
	}

	send(dashboard.EventDashboard)

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub.C:
			if !open {
				return
			}
			send(event)
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

// session resolves the cookie to a live session, starting a new one when the
// cookie is missing or its session has been swept.
func (h *StreamsHandler) session(w http.ResponseWriter, r *http.Request) *dashboard.Session {
	if session, ok := h.store.GetSession(sessionIDFromCookie(r)); ok {
		return session
	}
	session := h.store.CreateSession()
	h.setSessionCookie(w, session.ID)
	h.logger.Info("session created", "session", session.ID)
	return session
}

func sessionIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *StreamsHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.cookieTTL),
	})
}

var errNotFinite = errors.New("offset must be finite")

func parseOffset(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return parseFinite(value)
}

func parseFinite(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}
