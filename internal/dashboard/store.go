package dashboard

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"askstream/pkg/cardstack"
	"askstream/pkg/realtime"
)

// Events published to a session's SSE subscribers.
const (
	EventStack     realtime.Event = "stack"
	EventDashboard realtime.Event = "dashboard"
)

// StoreConfig configures a Store.
type StoreConfig struct {
	Loader       Loader
	LoadingDelay time.Duration
	StackOptions []cardstack.Option
	Logger       *slog.Logger
}

// Store holds sessions and delegates to realtime.RoomStore for broadcast and loading loops.
type Store struct {
	r      *realtime.RoomStore[*Session]
	cfg    StoreConfig
	logger *slog.Logger
}

// NewStore creates an in-memory session store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.Loader == nil {
		cfg.Loader = FileLoader("")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{r: realtime.NewRoomStore[*Session](), cfg: cfg, logger: logger}
}

// CreateSession registers a new session and starts loading its data.
func (s *Store) CreateSession() *Session {
	session := NewSession(uuid.NewString(), s.cfg.StackOptions...)
	s.r.Create(session.ID, session)
	s.EnsureLoadLoop(session.ID)
	return session
}

// GetSession returns a session by ID if it exists.
func (s *Store) GetSession(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.r.Len()
}

// Broadcaster returns the SSE broadcaster for a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, bool) {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a session update.
func (s *Store) Publish(id string, events ...realtime.Event) {
	s.r.Publish(id, events...)
}

// Reload puts the session back into loading and restarts the loading loop.
func (s *Store) Reload(id string) bool {
	session, ok := s.GetSession(id)
	if !ok {
		return false
	}
	session.Reload()
	s.EnsureLoadLoop(id)
	return true
}

// EnsureLoadLoop starts the loading loop for a session if not already running.
// The loop waits for the loading delay, loads the data once and exits.
func (s *Store) EnsureLoadLoop(id string) {
	ready := time.Now().Add(s.cfg.LoadingDelay)
	getState := func() (*Session, bool) {
		return s.GetSession(id)
	}
	tick := func(session *Session, now time.Time) (time.Time, []realtime.Event, bool) {
		if !session.IsLoading() {
			return time.Time{}, nil, true
		}
		if now.Before(ready) {
			return ready, nil, false
		}
		data, err := s.cfg.Loader()
		if err != nil {
			s.logger.Error("load dashboard data", "session", id, "error", err)
		} else {
			s.logger.Debug("dashboard data loaded", "session", id, "cards", len(data.StackedCards))
		}
		session.FinishLoading(data, err)
		return time.Time{}, []realtime.Event{EventDashboard, EventStack}, true
	}
	s.r.RunLoop(id, getState, tick)
}

// Sweep drops sessions idle for longer than idle.
func (s *Store) Sweep(idle time.Duration) int {
	removed := s.r.Sweep(idle)
	if len(removed) > 0 {
		s.logger.Info("swept idle sessions", "count", len(removed))
	}
	return len(removed)
}

// Close stops all loading loops.
func (s *Store) Close() {
	s.r.StopAll()
}
