package render

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"cloudjuke/internal/core"
)

// maxFetchBytes caps background downloads.
const maxFetchBytes = 10 << 20

// background returns the canvas base stretched to the target size: the
// configured background if it fetches and decodes, else the default cover,
// else a flat mid-gray canvas. Each fetch is an independent attempt.
func (c *Compositor) background(ctx context.Context, opts core.RenderOptions) *image.NRGBA {
	for _, candidate := range []string{opts.BackgroundURL, opts.DefaultCoverURL} {
		if candidate == "" {
			continue
		}

		img, err := c.fetchImage(ctx, candidate, opts.Timeout)
		if err != nil {
			c.logger.Warn("Background fetch failed",
				zap.String("url", candidate),
				zap.Error(err))
			continue
		}

		return imaging.Resize(img, canvasSize, canvasSize, imaging.Lanczos)
	}

	return imaging.New(canvasSize, canvasSize, colorCanvasGray)
}

// fetchImage downloads and decodes a single image URL.
func (c *Compositor) fetchImage(ctx context.Context, rawURL string, timeout time.Duration) (image.Image, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return img, nil
}
