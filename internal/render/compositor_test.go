package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"cloudjuke/internal/core"
)

func sampleSongs() []core.Song {
	return []core.Song{
		{ID: 186016, Name: "晴天", Artist: "周杰伦", Album: "叶惠美", Duration: 269 * time.Second},
		{ID: 27646205, Name: "平凡之路", Artist: "朴树", Album: "猎户星座", Duration: 302 * time.Second},
		{ID: 5, Name: "a very long english title that needs wrapping onto several lines", Artist: "somebody", Album: "someplace"},
	}
}

// solidImageServer serves a single solid-color PNG on every request.
func solidImageServer(t *testing.T, c color.NRGBA) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := imaging.New(10, 10, c)
		if err := imaging.Encode(w, img, imaging.PNG); err != nil {
			t.Errorf("encode fixture image: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func decodeResult(t *testing.T, encoded string) image.Image {
	t.Helper()

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("result is not valid base64: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("result is not a decodable PNG: %v", err)
	}

	return img
}

func pixelAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestRenderListUsesBackground(t *testing.T) {
	server := solidImageServer(t, color.NRGBA{R: 255, A: 255})
	c := NewCompositor(zap.NewNop())

	encoded, err := c.RenderList(context.Background(), sampleSongs(), core.RenderOptions{
		BackgroundURL: server.URL,
		MaxRows:       15,
		Header:        "网易云音乐搜索结果",
	})
	if err != nil {
		t.Fatalf("RenderList failed: %v", err)
	}

	img := decodeResult(t, encoded)
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 800 {
		t.Fatalf("canvas = %v, want 800x800", img.Bounds())
	}

	corner := pixelAt(img, 5, 5)
	if corner.R < 250 || corner.G > 10 || corner.B > 10 {
		t.Errorf("corner pixel = %+v, want the red background stretched to the corner", corner)
	}
}

func TestRenderListFallsBackToDefaultCover(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer failing.Close()
	cover := solidImageServer(t, color.NRGBA{B: 255, A: 255})

	c := NewCompositor(zap.NewNop())
	encoded, err := c.RenderList(context.Background(), sampleSongs(), core.RenderOptions{
		BackgroundURL:   failing.URL,
		DefaultCoverURL: cover.URL,
		MaxRows:         15,
		Header:          "网易云音乐搜索结果",
	})
	if err != nil {
		t.Fatalf("RenderList failed: %v", err)
	}

	corner := pixelAt(decodeResult(t, encoded), 5, 5)
	if corner.B < 250 || corner.R > 10 {
		t.Errorf("corner pixel = %+v, want the default cover color", corner)
	}
}

func TestRenderListSynthesizesCanvas(t *testing.T) {
	// No URLs configured at all: the compositor synthesizes a gray canvas.
	c := NewCompositor(zap.NewNop())
	encoded, err := c.RenderList(context.Background(), sampleSongs(), core.RenderOptions{
		MaxRows: 15,
		Header:  "网易云音乐搜索结果",
	})
	if err != nil {
		t.Fatalf("RenderList failed: %v", err)
	}

	img := decodeResult(t, encoded)

	corner := pixelAt(img, 5, 5)
	if corner != (color.NRGBA{R: 200, G: 200, B: 200, A: 255}) {
		t.Errorf("corner pixel = %+v, want flat gray", corner)
	}

	// Rows start below the header area and darken the canvas.
	row := pixelAt(img, 400, headerHeight+margin+10)
	if row.R >= corner.R {
		t.Errorf("row pixel = %+v, want it darker than the bare canvas", row)
	}
}

func TestRenderListUnreachableURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // all fetches fail at dial time

	c := NewCompositor(zap.NewNop())
	encoded, err := c.RenderList(context.Background(), sampleSongs(), core.RenderOptions{
		BackgroundURL:   server.URL,
		DefaultCoverURL: server.URL,
		MaxRows:         15,
		Header:          "header",
	})
	if err != nil {
		t.Fatalf("RenderList should degrade to the synthesized canvas: %v", err)
	}

	corner := pixelAt(decodeResult(t, encoded), 5, 5)
	if corner != (color.NRGBA{R: 200, G: 200, B: 200, A: 255}) {
		t.Errorf("corner pixel = %+v, want flat gray", corner)
	}
}

func TestRenderListZeroSongs(t *testing.T) {
	c := NewCompositor(zap.NewNop())
	encoded, err := c.RenderList(context.Background(), nil, core.RenderOptions{
		MaxRows: 15,
		Header:  "网易云音乐搜索结果",
	})
	if err != nil {
		t.Fatalf("RenderList failed for zero songs: %v", err)
	}

	img := decodeResult(t, encoded)
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 800 {
		t.Errorf("canvas = %v, want 800x800", img.Bounds())
	}
}

func TestRenderListDeterministic(t *testing.T) {
	c := NewCompositor(zap.NewNop())
	opts := core.RenderOptions{MaxRows: 10, Header: "网易云音乐搜索结果"}

	first, err := c.RenderList(context.Background(), sampleSongs(), opts)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := c.RenderList(context.Background(), sampleSongs(), opts)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}

	if first != second {
		t.Error("renders of identical input should be byte-identical")
	}
}

func TestRenderListFontFallback(t *testing.T) {
	c := NewCompositor(zap.NewNop())

	_, err := c.RenderList(context.Background(), sampleSongs(), core.RenderOptions{
		FontPath: "/nonexistent/simsun.ttc",
		MaxRows:  15,
		Header:   "header",
	})
	if err != nil {
		t.Fatalf("RenderList must not fail on a missing font: %v", err)
	}
}

func TestRenderListFetchTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer slow.Close()

	c := NewCompositor(zap.NewNop())
	start := time.Now()
	_, err := c.RenderList(context.Background(), sampleSongs(), core.RenderOptions{
		BackgroundURL: slow.URL,
		MaxRows:       15,
		Header:        "header",
		Timeout:       50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("RenderList failed: %v", err)
	}

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("render took %v, fetch timeout did not apply", elapsed)
	}
}

func TestRenderListClampsMaxRows(t *testing.T) {
	c := NewCompositor(zap.NewNop())

	// MaxRows below one must not divide by zero.
	_, err := c.RenderList(context.Background(), sampleSongs()[:1], core.RenderOptions{
		MaxRows: 0,
		Header:  "header",
	})
	if err != nil {
		t.Fatalf("RenderList failed for MaxRows 0: %v", err)
	}
}

func BenchmarkRenderList(b *testing.B) {
	c := NewCompositor(zap.NewNop())
	songs := sampleSongs()
	opts := core.RenderOptions{MaxRows: 15, Header: "网易云音乐搜索结果"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.RenderList(context.Background(), songs, opts); err != nil {
			b.Fatal(err)
		}
	}
}
