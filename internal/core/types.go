package core

import (
	"context"
	"time"

	"cloudjuke/internal/card"
)

// Song is a normalized catalog record as shown in search results.
type Song struct {
	ID       int64
	Name     string
	Artist   string
	Album    string
	Duration time.Duration
	CoverURL string
}

// SongDetail is a Song joined with the raw album art URL needed by the
// cover resolver.
type SongDetail struct {
	Song
	PicURL string
}

// SearchResult is the payload returned to the agent runtime for a search:
// a textual summary and, when list rendering is enabled, a base64 PNG of
// the result list.
type SearchResult struct {
	Message     string
	ImageBase64 string
}

// RenderOptions carries the per-call knobs for the list image compositor.
// They are read from a fresh config snapshot on every render.
type RenderOptions struct {
	BackgroundURL   string
	FontPath        string
	MaxRows         int
	DefaultCoverURL string
	Timeout         time.Duration
	Header          string
}

// CatalogClient searches the song catalog and resolves track details.
type CatalogClient interface {
	EnsureSession(cookie string) error
	Reset()
	Search(ctx context.Context, keyword string, limit int, defaultCoverURL string) ([]Song, error)
	TrackDetail(ctx context.Context, songID int64) (*SongDetail, error)
}

// CardSigner resolves signed rich-card payloads for songs. A missing
// payload is an expected outcome, not an error.
type CardSigner interface {
	SignedCard(ctx context.Context, req card.Request) (payload string, ok bool)
}

// ListRenderer draws the song list image and returns it base64-encoded.
type ListRenderer interface {
	RenderList(ctx context.Context, songs []Song, opts RenderOptions) (string, error)
}

// SendGate rate-limits outbound deliveries per chat.
type SendGate interface {
	Allow(chatKey string) bool
}

// Metrics receives delivery and catalog outcome counts. The implementation
// lives with the HTTP layer; a nil Metrics disables recording.
type Metrics interface {
	RecordSend(kind, status string)
	RecordCatalog(op, status string)
}
