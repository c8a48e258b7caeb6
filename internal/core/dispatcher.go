package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"cloudjuke/internal/card"
	"cloudjuke/internal/chat"
	"cloudjuke/internal/i18n"
	"cloudjuke/pkg/text"
)

// Dispatcher handles the two agent operations, search and play, over any
// registered chat transport.
type Dispatcher struct {
	provider  *Provider
	catalog   CatalogClient
	signer    CardSigner
	renderer  ListRenderer
	gate      SendGate
	metrics   Metrics
	logger    *zap.Logger
	localizer *i18n.Localizer

	transports map[string]chat.Transport
}

// NewDispatcher creates a dispatcher over the provided components.
// Transports are keyed by their Name for chat key routing.
func NewDispatcher(
	provider *Provider,
	catalog CatalogClient,
	signer CardSigner,
	renderer ListRenderer,
	gate SendGate,
	transports []chat.Transport,
	metrics Metrics,
	logger *zap.Logger,
) *Dispatcher {
	byName := make(map[string]chat.Transport, len(transports))
	for _, t := range transports {
		byName[t.Name()] = t
	}

	return &Dispatcher{
		provider:   provider,
		catalog:    catalog,
		signer:     signer,
		renderer:   renderer,
		gate:       gate,
		metrics:    metrics,
		logger:     logger,
		localizer:  i18n.NewLocalizer(provider.Snapshot().App.Language),
		transports: byName,
	}
}

// SearchSongs searches the catalog and returns a listing message, plus a
// rendered list image when enabled. User-facing failures (empty keyword,
// missing credential, no results) come back as localized messages with a
// nil error; only transport and decode failures surface as errors.
func (d *Dispatcher) SearchSongs(ctx context.Context, keyword string) (*SearchResult, error) {
	cfg := d.provider.Snapshot()

	keyword = text.Normalize(keyword)
	if keyword == "" {
		return &SearchResult{Message: d.localizer.T("error.keyword_empty")}, nil
	}

	if msg, ok := d.ensureSession(cfg); !ok {
		return &SearchResult{Message: msg}, nil
	}

	ctx, cancel := d.withTimeout(ctx, cfg)
	defer cancel()

	songs, err := d.catalog.Search(ctx, keyword, cfg.Catalog.MaxResults, cfg.Image.DefaultCoverURL)
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			d.recordCatalog("search", "no_results")
			return &SearchResult{Message: d.localizer.T("error.search_no_results", keyword)}, nil
		}
		d.recordCatalog("search", "error")
		return nil, fmt.Errorf("search failed: %w", err)
	}
	d.recordCatalog("search", "ok")

	result := &SearchResult{Message: d.formatSearchMessage(keyword, songs)}

	if cfg.Image.EnableList {
		encoded, err := d.renderer.RenderList(ctx, songs, RenderOptions{
			BackgroundURL:   cfg.Image.BackgroundURL,
			FontPath:        cfg.Image.FontPath,
			MaxRows:         cfg.Catalog.MaxResults,
			DefaultCoverURL: cfg.Image.DefaultCoverURL,
			Timeout:         time.Duration(cfg.Catalog.TimeoutSecs) * time.Second,
			Header:          d.localizer.T("search.header"),
		})
		if err != nil {
			d.logger.Warn("List image render failed, returning text only", zap.Error(err))
		} else {
			result.ImageBase64 = encoded
		}
	}

	d.logger.Info("Search handled",
		zap.String("keyword", keyword),
		zap.Int("results", len(songs)),
		zap.Bool("image", result.ImageBase64 != ""))

	return result, nil
}

// PlaySong resolves a song and delivers it into the chat identified by
// chatKey, degrading from the richest delivery the host supports down to a
// plain text bundle. The returned message states what was delivered.
func (d *Dispatcher) PlaySong(ctx context.Context, songID int64, chatKey string) (string, error) {
	cfg := d.provider.Snapshot()

	if songID <= 0 {
		return d.localizer.T("error.invalid_song_id", songID), nil
	}

	if msg, ok := d.ensureSession(cfg); !ok {
		return msg, nil
	}

	ctx, cancel := d.withTimeout(ctx, cfg)
	defer cancel()

	detail, err := d.catalog.TrackDetail(ctx, songID)
	if err != nil {
		if errors.Is(err, ErrSongNotFound) {
			d.recordCatalog("detail", "not_found")
			return d.localizer.T("error.song_not_found", songID), nil
		}
		d.recordCatalog("detail", "error")
		return "", fmt.Errorf("track detail failed: %w", err)
	}
	d.recordCatalog("detail", "ok")

	transportName, target, err := chat.ParseKey(chatKey)
	if err != nil {
		var keyErr *chat.KeyFormatError
		if errors.As(err, &keyErr) {
			d.logger.Debug("Unusable chat key", zap.String("key", chatKey), zap.String("reason", keyErr.Reason))
			return d.localizer.T("error.bad_chat_key", keyErr.Raw), nil
		}
		return "", err
	}

	transport, ok := d.transports[transportName]
	if !ok {
		// Rich deliveries are host specific. Other hosts get the song info
		// as text with a web fallback link.
		d.logger.Debug("No transport for chat key, replying with song info",
			zap.String("transport", transportName))
		return d.formatPlayInfo(detail), nil
	}

	if !d.gate.Allow(chatKey) {
		d.logger.Info("Delivery rate limited",
			zap.String("chatKey", chatKey),
			zap.Int64("songID", songID))
		return d.localizer.T("error.rate_limited"), nil
	}

	return d.deliver(ctx, cfg, transport, target, detail), nil
}

// deliver walks the delivery ladder and stops at the first send the host
// accepts: native music share, then signed card, then the manual bundle.
func (d *Dispatcher) deliver(ctx context.Context, cfg *Config, transport chat.Transport, target chat.Target, detail *SongDetail) string {
	if cfg.Card.PreferNativeShare {
		if err := transport.SendMusicShare(ctx, target, detail.ID); err != nil {
			d.recordSend("music_share", "error")
			d.logger.Warn("Native music share failed, degrading",
				zap.Int64("songID", detail.ID),
				zap.Error(err))
		} else {
			d.recordSend("music_share", "ok")
			return d.localizer.T("play.native_sent", detail.Name)
		}
	}

	playURL := card.PlayURL(detail.ID)

	if cfg.Card.Enable && playURL != "" {
		req := card.Request{
			SongID:   detail.ID,
			Title:    detail.Name,
			Artist:   detail.Artist,
			MusicURL: playURL,
		}
		if cover, ok := card.CoverURL(detail.PicURL, cfg.Card.CoverSize); ok {
			req.CoverURL = cover
		}

		if payload, ok := d.signer.SignedCard(ctx, req); ok {
			if err := transport.SendCard(ctx, target, payload); err != nil {
				d.recordSend("card", "error")
				d.logger.Warn("Card delivery failed, degrading",
					zap.Int64("songID", detail.ID),
					zap.Error(err))
			} else {
				d.recordSend("card", "ok")
				return d.localizer.T("play.card_sent", detail.Name)
			}
		}
	}

	// Manual bundle: text, cover, voice. Partial failures are logged and
	// the remaining sends still go out.
	if err := transport.SendText(ctx, target, fmt.Sprintf("%s - %s", detail.Name, detail.Artist)); err != nil {
		d.recordSend("text", "error")
		d.logger.Warn("Text delivery failed", zap.Error(err))
	} else {
		d.recordSend("text", "ok")
	}

	if cover, ok := card.CoverURL(detail.PicURL, cfg.Card.CoverSize); ok {
		if err := transport.SendImage(ctx, target, cover); err != nil {
			d.recordSend("image", "error")
			d.logger.Warn("Cover delivery failed", zap.Error(err))
		} else {
			d.recordSend("image", "ok")
		}
	}

	if playURL != "" {
		if err := transport.SendVoice(ctx, target, playURL); err != nil {
			d.recordSend("voice", "error")
			d.logger.Warn("Voice delivery failed", zap.Error(err))
		} else {
			d.recordSend("voice", "ok")
		}
	}

	return d.localizer.T("play.fallback_sent", detail.Name)
}

// Shutdown releases dispatcher-held resources.
func (d *Dispatcher) Shutdown() {
	d.logger.Info("Shutting down dispatcher")

	d.catalog.Reset()

	if stopper, ok := d.gate.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}

// ensureSession installs the configured cookie credential, returning a
// localized message when it is absent or incomplete.
func (d *Dispatcher) ensureSession(cfg *Config) (string, bool) {
	err := d.catalog.EnsureSession(cfg.Catalog.Cookie)
	if err == nil {
		return "", true
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		if len(cfgErr.Missing) > 0 {
			return d.localizer.T("error.cookie_keys", strings.Join(cfgErr.Missing, ", ")), false
		}
		return d.localizer.T("error.cookie_missing"), false
	}

	d.logger.Error("Session initialization failed", zap.Error(err))
	return d.localizer.T("error.generic"), false
}

// withTimeout bounds an operation with the configured request timeout.
func (d *Dispatcher) withTimeout(ctx context.Context, cfg *Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.Catalog.TimeoutSecs) * time.Second
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (d *Dispatcher) recordSend(kind, status string) {
	if d.metrics != nil {
		d.metrics.RecordSend(kind, status)
	}
}

func (d *Dispatcher) recordCatalog(op, status string) {
	if d.metrics != nil {
		d.metrics.RecordCatalog(op, status)
	}
}
