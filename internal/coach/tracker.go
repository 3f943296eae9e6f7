package coach

import "sync"

// Token identifies one plan generation of a user.
type Token struct {
	UserID int
	seq    uint64
}

// Tracker remembers the latest plan generation of every user. A response is only relevant while its token is the
// latest one: starting a new generation or discarding the pending plan makes older tokens stale.
type Tracker struct {
	mu     sync.Mutex
	next   uint64
	latest map[int]uint64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{mu: sync.Mutex{}, next: 0, latest: make(map[int]uint64)}
}

// Begin issues a new token for userID and makes every earlier token of the user stale.
func (t *Tracker) Begin(userID int) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.latest[userID] = t.next
	return Token{UserID: userID, seq: t.next}
}

// Current reports whether token is still the latest of its user.
func (t *Tracker) Current(token Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	seq, ok := t.latest[token.UserID]
	return ok && seq == token.seq
}

// Finish forgets token if it is still current.
func (t *Tracker) Finish(token Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest[token.UserID] == token.seq {
		delete(t.latest, token.UserID)
	}
}

// Invalidate makes every outstanding token of userID stale.
func (t *Tracker) Invalidate(userID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.latest, userID)
}
