// Package catalog provides NetEase Cloud Music API integration for song
// search and track detail lookup.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"cloudjuke/internal/card"
	"cloudjuke/internal/core"
	"cloudjuke/internal/store"
)

const (
	// DefaultBaseURL is the catalog API origin.
	DefaultBaseURL = "https://music.163.com"
	// defaultUnknownAlbum is the album placeholder when none is configured.
	defaultUnknownAlbum = "未知专辑"
	// searchTypeSong selects song results on the search endpoint.
	searchTypeSong = 1
	// searchCoverSize is the thumbnail size for search result covers.
	searchCoverSize = 140
	// maxResponseBytes caps catalog response reads.
	maxResponseBytes = 4 << 20
	// userAgent is sent on catalog requests; the API rejects bare clients.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type Config struct {
	BaseURL      string
	UnknownAlbum string
}

// Client talks to the catalog API using the session credential. Request
// deadlines are the caller's responsibility via ctx.
type Client struct {
	config  *Config
	logger  *zap.Logger
	session *session
	cache   *store.Cache
	http    *http.Client
	baseURL string
}

func NewClient(config *Config, logger *zap.Logger, cache *store.Cache) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		config:  config,
		logger:  logger,
		session: &session{},
		cache:   cache,
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// EnsureSession validates and installs the cookie credential. An unchanged
// cookie string is a no-op, so calling this before every operation keeps
// hot-reloaded config picked up without re-validating on every call.
func (c *Client) EnsureSession(cookieString string) error {
	changed, err := c.session.ensure(cookieString)
	if err != nil {
		return err
	}

	if changed {
		c.logger.Info("Catalog session initialized")
	}

	return nil
}

// Reset clears the session credential.
func (c *Client) Reset() {
	if c.session.snapshot() != nil {
		c.session.reset()
		c.logger.Info("Catalog session cleared")
	}
}

// rawArtist, rawAlbum and rawSong mirror the catalog's wire shapes.
type rawArtist struct {
	Name string `json:"name"`
}

type rawAlbum struct {
	Name   string `json:"name"`
	PicURL string `json:"picUrl"`
}

type rawSong struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Artists  []rawArtist `json:"ar"`
	Album    rawAlbum    `json:"al"`
	Duration int64       `json:"dt"`
}

type searchResponse struct {
	Result struct {
		Songs     []json.RawMessage `json:"songs"`
		SongCount int               `json:"songCount"`
	} `json:"result"`
	Code int `json:"code"`
}

type detailResponse struct {
	Songs []json.RawMessage `json:"songs"`
	Code  int               `json:"code"`
}

// Search returns up to limit songs matching the keyword. Entries that fail
// to map are logged and skipped; an empty result set yields ErrNoResults.
// A single request is made, no pagination, no retry.
func (c *Client) Search(ctx context.Context, keyword string, limit int, defaultCoverURL string) ([]core.Song, error) {
	state := c.session.snapshot()
	if state == nil {
		return nil, &core.ConfigError{}
	}

	params := url.Values{}
	params.Set("s", keyword)
	params.Set("type", strconv.Itoa(searchTypeSong))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", "0")

	body, err := c.get(ctx, state, "/api/cloudsearch/pc", params)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if len(resp.Result.Songs) == 0 {
		return nil, fmt.Errorf("%w for keyword %q", core.ErrNoResults, keyword)
	}

	raws := resp.Result.Songs
	if len(raws) > limit {
		raws = raws[:limit]
	}

	songs := make([]core.Song, 0, len(raws))
	for _, raw := range raws {
		song, err := c.mapSong(raw, defaultCoverURL)
		if err != nil {
			c.logger.Warn("Skipping malformed song entry", zap.Error(err))
			continue
		}
		songs = append(songs, song)
	}

	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: no usable entries for keyword %q", core.ErrNoResults, keyword)
	}

	c.logger.Info("Search completed",
		zap.String("keyword", keyword),
		zap.Int("results", len(songs)),
		zap.Int("totalMatches", resp.Result.SongCount))

	return songs, nil
}

// TrackDetail resolves a song by ID, consulting the detail cache first.
// Unknown IDs yield ErrSongNotFound and are remembered as missing.
func (c *Client) TrackDetail(ctx context.Context, songID int64) (*core.SongDetail, error) {
	state := c.session.snapshot()
	if state == nil {
		return nil, &core.ConfigError{}
	}

	if c.cache != nil {
		if detail, ok := c.cache.Get(songID); ok {
			return detail, nil
		}
		if c.cache.IsMissing(songID) {
			return nil, fmt.Errorf("%w: %d", core.ErrSongNotFound, songID)
		}
	}

	params := url.Values{}
	params.Set("c", fmt.Sprintf(`[{"id":%d}]`, songID))

	body, err := c.get(ctx, state, "/api/v3/song/detail", params)
	if err != nil {
		return nil, fmt.Errorf("detail request failed: %w", err)
	}

	envelope, err := unwrapDetail(body)
	if err != nil {
		return nil, fmt.Errorf("decode detail response: %w", err)
	}

	if len(envelope.Songs) == 0 {
		if c.cache != nil {
			c.cache.MarkMissing(songID)
		}
		return nil, fmt.Errorf("%w: %d", core.ErrSongNotFound, songID)
	}

	detail, err := c.mapDetail(envelope.Songs[0])
	if err != nil {
		return nil, fmt.Errorf("map detail for song %d: %w", songID, err)
	}

	if c.cache != nil {
		c.cache.Put(songID, detail)
	}

	return detail, nil
}

// unwrapDetail tolerates both observed detail response shapes: a plain JSON
// object, or a two-element array carrying the object in its second slot.
func unwrapDetail(body []byte) (*detailResponse, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return nil, err
		}
		if len(pair) < 2 {
			return nil, fmt.Errorf("tagged response has %d elements, want 2", len(pair))
		}
		body = pair[1]
	}

	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) get(ctx context.Context, state *sessionState, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", c.baseURL+"/")
	for key, value := range state.cookies {
		req.AddCookie(&http.Cookie{Name: key, Value: value})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

// mapSong converts a raw search entry into a Song. Entries without a
// positive ID or a name are rejected so they can be skipped upstream.
func (c *Client) mapSong(raw json.RawMessage, defaultCoverURL string) (core.Song, error) {
	var s rawSong
	if err := json.Unmarshal(raw, &s); err != nil {
		return core.Song{}, err
	}

	if s.ID <= 0 {
		return core.Song{}, fmt.Errorf("missing or invalid song id")
	}
	if s.Name == "" {
		return core.Song{}, fmt.Errorf("missing song name for id %d", s.ID)
	}

	cover := defaultCoverURL
	if thumb, ok := card.CoverURL(s.Album.PicURL, searchCoverSize); ok {
		cover = thumb
	}

	return core.Song{
		ID:       s.ID,
		Name:     s.Name,
		Artist:   joinArtists(s.Artists),
		Album:    c.albumName(s.Album.Name),
		Duration: durationFromMillis(s.Duration),
		CoverURL: cover,
	}, nil
}

func (c *Client) mapDetail(raw json.RawMessage) (*core.SongDetail, error) {
	var s rawSong
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}

	if s.ID <= 0 {
		return nil, fmt.Errorf("missing or invalid song id")
	}
	if s.Name == "" {
		return nil, fmt.Errorf("missing song name for id %d", s.ID)
	}

	return &core.SongDetail{
		Song: core.Song{
			ID:       s.ID,
			Name:     s.Name,
			Artist:   joinArtists(s.Artists),
			Album:    c.albumName(s.Album.Name),
			Duration: durationFromMillis(s.Duration),
		},
		PicURL: s.Album.PicURL,
	}, nil
}

func (c *Client) albumName(name string) string {
	if name != "" {
		return name
	}
	if c.config.UnknownAlbum != "" {
		return c.config.UnknownAlbum
	}
	return defaultUnknownAlbum
}

func joinArtists(artists []rawArtist) string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		if artist.Name != "" {
			names = append(names, artist.Name)
		}
	}
	return strings.Join(names, ", ")
}

func durationFromMillis(millis int64) time.Duration {
	if millis < 0 {
		millis = 0
	}
	return time.Duration(millis) * time.Millisecond
}
