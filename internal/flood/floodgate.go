// Package flood provides per-chat rate limiting for song deliveries.
package flood

import (
	"sync"
	"time"
)

const (
	// windowDuration is the fixed rate limiting window (always 1 minute)
	windowDuration = 60 * time.Second
	// cleanupInterval is how often idle entries are swept
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long before an idle chat entry is removed
	idleTimeout = 10 * time.Minute
)

// Gate limits how many songs may be delivered into each chat per minute
// using a sliding window. A limit of zero or less disables the gate.
type Gate struct {
	playsPerMinute int
	entries        map[string]*chatEntry // keyed by chat key
	mutex          sync.RWMutex
	stopCleanup    chan struct{}
}

// chatEntry tracks delivery timestamps for a single chat
type chatEntry struct {
	timestamps []time.Time // Sliding window of delivery timestamps
	lastSeen   time.Time   // When this chat last played (for cleanup)
}

// New creates a Gate with the specified per-chat limit
// The time window is fixed at 60 seconds (1 minute)
func New(playsPerMinute int) *Gate {
	g := &Gate{
		playsPerMinute: playsPerMinute,
		entries:        make(map[string]*chatEntry),
		stopCleanup:    make(chan struct{}),
	}

	// Start background cleanup goroutine
	go g.cleanup()

	return g
}

// Stop stops the background cleanup goroutine
func (g *Gate) Stop() {
	close(g.stopCleanup)
}

// Allow checks if another delivery into the chat fits the rate limit
// Returns true if the delivery should proceed and records it, false if the
// chat is over its limit
func (g *Gate) Allow(chatKey string) bool {
	if g.playsPerMinute <= 0 {
		// Gate disabled
		return true
	}

	now := time.Now()

	g.mutex.Lock()
	defer g.mutex.Unlock()

	entry, exists := g.entries[chatKey]
	if !exists {
		entry = &chatEntry{
			timestamps: make([]time.Time, 0, g.playsPerMinute+1),
		}
		g.entries[chatKey] = entry
	}

	entry.lastSeen = now

	// Remove timestamps outside the window
	windowStart := now.Add(-windowDuration)
	valid := entry.timestamps[:0] // Reuse slice capacity
	for _, ts := range entry.timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= g.playsPerMinute {
		return false
	}

	entry.timestamps = append(entry.timestamps, now)
	return true
}

// cleanup removes idle chat entries to prevent memory leaks
func (g *Gate) cleanup() {
	// Run immediately on startup
	g.performCleanup()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.performCleanup()
		case <-g.stopCleanup:
			return
		}
	}
}

// performCleanup removes entries that have been idle for too long
func (g *Gate) performCleanup() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	cutoff := time.Now().Add(-idleTimeout)
	for key, entry := range g.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(g.entries, key)
		}
	}
}

// GetStats returns statistics about the gate for monitoring
func (g *Gate) GetStats() Stats {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return Stats{
		ActiveChats:    len(g.entries),
		PlaysPerMinute: g.playsPerMinute,
		WindowSeconds:  int(windowDuration.Seconds()),
	}
}

// Stats contains gate statistics
type Stats struct {
	ActiveChats    int `json:"active_chats"`
	PlaysPerMinute int `json:"plays_per_minute"`
	WindowSeconds  int `json:"window_seconds"`
}
