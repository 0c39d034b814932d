package assessment

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cropguard/backend/internal/models"
	"github.com/cropguard/backend/internal/webhook"
)

// Registry keeps one Flow per visitor session.
type Registry struct {
	client     webhook.Client
	logger     zerolog.Logger
	ttl        time.Duration
	debugLimit int
	now        func() time.Time

	mu    sync.Mutex
	flows map[string]*session
}

type session struct {
	flow *Flow
	seen time.Time
}

func NewRegistry(client webhook.Client, logger zerolog.Logger, ttl time.Duration, debugLimit int) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{
		client:     client,
		logger:     logger,
		ttl:        ttl,
		debugLimit: debugLimit,
		now:        time.Now,
		flows:      map[string]*session{},
	}
}

// Session returns the flow for id, creating a new session when id is
// missing, malformed or expired. The returned id is the one to hand back to
// the visitor.
func (r *Registry) Session(id string) (string, *Flow) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	if _, err := uuid.Parse(id); err == nil {
		if s, ok := r.flows[id]; ok {
			s.seen = now
			return id, s.flow
		}
	}

	id = uuid.New().String()
	flow := NewFlow(r.client, r.logger.With().Str("session_id", id).Logger(), r.debugLimit)
	r.flows[id] = &session{flow: flow, seen: now}
	return id, flow
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

func (r *Registry) sweep(now time.Time) {
	for id, s := range r.flows {
		if now.Sub(s.seen) <= r.ttl {
			continue
		}
		if s.flow.Current().Status == models.StatusPending {
			continue
		}
		delete(r.flows, id)
	}
}
