package pane

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultNoticeTTL is how long a notice stays visible.
const DefaultNoticeTTL = 5 * time.Second

// maxNotices bounds the history kept for Active.
const maxNotices = 32

// Kind is the severity of a notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice is a transient message for the banner.
type Notice struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Message   string    `json:"message" yaml:"message"`
	PostedAt  time.Time `json:"posted_at" yaml:"posted_at"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// Notices is the banner queue. Notices expire after the TTL.
type Notices struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notice
}

// NewNotices returns a queue whose notices live for ttl. Non-positive ttl
// uses DefaultNoticeTTL.
func NewNotices(ttl time.Duration) *Notices {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notices{ttl: ttl, now: time.Now}
}

// SetTTL changes the lifetime of notices posted from now on.
func (n *Notices) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ttl = ttl
}

// Post adds a notice and returns it.
func (n *Notices) Post(kind Kind, message string) Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	notice := Notice{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		PostedAt:  now,
		ExpiresAt: now.Add(n.ttl),
	}
	n.items = append(n.items, notice)
	if len(n.items) > maxNotices {
		n.items = n.items[len(n.items)-maxNotices:]
	}
	return notice
}

// Active returns the unexpired notices, oldest first, and drops the rest.
func (n *Notices) Active() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	kept := n.items[:0]
	for _, it := range n.items {
		if now.Before(it.ExpiresAt) {
			kept = append(kept, it)
		}
	}
	n.items = kept
	return append([]Notice(nil), kept...)
}

// Current returns the most recent unexpired notice, which is what the
// banner shows.
func (n *Notices) Current() (Notice, bool) {
	active := n.Active()
	if len(active) == 0 {
		return Notice{}, false
	}
	return active[len(active)-1], true
}
