package terminal

import (
	"fmt"
	"sync"

	"github.com/GriffinCanCode/TermHub/internal/infrastructure/config"
	"github.com/GriffinCanCode/TermHub/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TermHub/internal/logging"
	"github.com/GriffinCanCode/TermHub/internal/shared/id"
	"go.uber.org/zap"
)

// Registry maps session ids to live sessions under one mutex. It is built
// explicitly and injected into whatever component needs terminal sessions;
// there is no package-level instance.
type Registry struct {
	cfg     config.TerminalConfig
	log     *logging.Logger
	metrics *monitoring.Metrics

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a session registry. metrics may be nil.
func NewRegistry(cfg config.TerminalConfig, log *logging.Logger, metrics *monitoring.Metrics) *Registry {
	return &Registry{
		cfg:      cfg,
		log:      log.Named("terminal"),
		metrics:  metrics,
		sessions: make(map[string]*Session),
	}
}

// Create spawns a new session under sessionID. An empty id gets a generated
// one. If the id already maps to a live session, that session is fully
// destroyed first: an id maps to at most one live session at any instant,
// and the check, teardown, spawn, and insert are one atomic unit with
// respect to other registry operations. On spawn failure no entry is left.
func (r *Registry) Create(sessionID string, opts Options) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sessionID == "" {
		sessionID = string(id.NewSessionID())
	}

	if old, ok := r.sessions[sessionID]; ok {
		r.log.Info("replacing existing session", zap.String("session_id", sessionID))
		old.Cleanup()
		delete(r.sessions, sessionID)
	}

	sess, err := newSession(sessionID, opts, r.cfg, r.log, r.metrics)
	if err != nil {
		r.metrics.RecordSpawnFailure()
		r.log.Error("session spawn failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, fmt.Errorf("create session %s: %w", sessionID, err)
	}

	r.sessions[sessionID] = sess
	r.metrics.RecordSessionStart()
	return sess, nil
}

// Get looks up a session by id.
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	return sess, ok
}

// Close destroys the session under sessionID. Unknown ids are a safe no-op.
// The entry is removed under the lock but the teardown runs outside it, so
// a slow process kill never blocks unrelated registry operations.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()

	if ok {
		sess.Cleanup()
	}
}

// CloseAll destroys every session sequentially.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for sessionID := range r.sessions {
		ids = append(ids, sessionID)
	}
	r.mu.Unlock()

	for _, sessionID := range ids {
		r.Close(sessionID)
	}
}

// List returns a metadata snapshot of every registered session.
func (r *Registry) List() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]Info, 0, len(r.sessions))
	for _, sess := range r.sessions {
		infos = append(infos, sess.Info())
	}
	return infos
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
