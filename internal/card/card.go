// Package card builds playback links for catalog songs and resolves signed
// rich-card payloads from the external signing endpoint.
package card

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultAPIURL is the card signing endpoint.
	DefaultAPIURL = "https://oiapi.net/api/QQMusicJSONArk"
	// cardFormat tags signed payloads as NetEase-styled cards.
	cardFormat = "163"
	// signTimeout bounds a signing request. Signing is best-effort and does
	// not inherit the caller's longer catalog timeout.
	signTimeout = 10 * time.Second
	// maxSignResponseBytes caps signing endpoint response reads.
	maxSignResponseBytes = 1 << 20
)

// Request carries the song fields that feed a signed card.
type Request struct {
	SongID   int64
	Title    string
	Artist   string
	CoverURL string
	MusicURL string
}

// PlayURL returns the direct audio URL for a song.
func PlayURL(songID int64) string {
	return fmt.Sprintf("https://music.163.com/song/media/outer/url?id=%d.mp3", songID)
}

// JumpURL returns the web player page for a song.
func JumpURL(songID int64) string {
	return fmt.Sprintf("https://music.163.com/#/song?id=%d", songID)
}

// CoverURL appends the catalog's resize parameter to an album art URL.
// It reports false when no art exists or the size is zero (cover disabled).
func CoverURL(picURL string, size int) (string, bool) {
	if picURL == "" || size <= 0 {
		return "", false
	}
	return fmt.Sprintf("%s?param=%dy%d", picURL, size, size), true
}

// Signer requests signed card payloads over HTTP.
type Signer struct {
	apiURL string
	logger *zap.Logger
	http   *http.Client
}

func NewSigner(apiURL string, logger *zap.Logger) *Signer {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Signer{
		apiURL: apiURL,
		logger: logger,
		http:   &http.Client{Timeout: signTimeout},
	}
}

// signResponse mirrors the signing endpoint's envelope. Code 1 with a
// non-empty message is the only success shape.
type signResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SignedCard requests a signed card payload for a song. Failures of any
// kind are logged and reported as a missing payload so callers fall back
// to plain delivery.
func (s *Signer) SignedCard(ctx context.Context, req Request) (string, bool) {
	form := url.Values{}
	form.Set("url", req.MusicURL)
	form.Set("jump", JumpURL(req.SongID))
	form.Set("song", req.Title)
	form.Set("singer", req.Artist)
	form.Set("cover", req.CoverURL)
	form.Set("format", cardFormat)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		s.logger.Warn("Building card request failed", zap.Error(err))
		return "", false
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		s.logger.Warn("Card request failed",
			zap.Int64("songID", req.SongID),
			zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Card endpoint returned unexpected status",
			zap.Int64("songID", req.SongID),
			zap.Int("status", resp.StatusCode))
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSignResponseBytes))
	if err != nil {
		s.logger.Warn("Reading card response failed",
			zap.Int64("songID", req.SongID),
			zap.Error(err))
		return "", false
	}

	var signed signResponse
	if err := json.Unmarshal(body, &signed); err != nil {
		s.logger.Warn("Decoding card response failed",
			zap.Int64("songID", req.SongID),
			zap.Error(err))
		return "", false
	}

	if signed.Code != 1 || signed.Message == "" {
		s.logger.Warn("Card endpoint declined to sign",
			zap.Int64("songID", req.SongID),
			zap.Int("code", signed.Code))
		return "", false
	}

	s.logger.Info("Signed card resolved", zap.Int64("songID", req.SongID))

	return signed.Message, true
}
