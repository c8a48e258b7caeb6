package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"cloudjuke/internal/core"
	"cloudjuke/internal/store"
)

const testCookie = "MUSIC_U=abc123; __csrf=tok456"

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&Config{BaseURL: server.URL}, zap.NewNop(), store.NewCache(16, time.Minute))
	if err := client.EnsureSession(testCookie); err != nil {
		t.Fatalf("EnsureSession failed: %v", err)
	}

	return client, server
}

const searchBody = `{
	"result": {
		"songs": [
			{"id": 186016, "name": "晴天", "ar": [{"name": "周杰伦"}], "al": {"name": "叶惠美", "picUrl": "https://p2.music.126.net/cover.jpg"}, "dt": 269000},
			{"id": 27646205, "name": "平凡之路", "ar": [{"name": "朴树"}, {"name": ""}], "al": {"name": ""}, "dt": 302000}
		],
		"songCount": 2
	},
	"code": 200
}`

func TestSearch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cloudsearch/pc" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("s"); got != "晴天" {
			t.Errorf("keyword param = %q, want %q", got, "晴天")
		}
		if got := r.URL.Query().Get("type"); got != "1" {
			t.Errorf("type param = %q, want %q", got, "1")
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit param = %q, want %q", got, "10")
		}
		if r.Header.Get("User-Agent") != userAgent {
			t.Error("request should carry the browser user agent")
		}
		if r.Header.Get("Referer") == "" {
			t.Error("request should carry a referer")
		}
		if cookie, err := r.Cookie(CookieKeyMusicU); err != nil || cookie.Value != "abc123" {
			t.Errorf("request should carry the %s cookie", CookieKeyMusicU)
		}
		w.Write([]byte(searchBody))
	}))

	songs, err := client.Search(context.Background(), "晴天", 10, "https://fallback.example/cover.jpg")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("got %d songs, want 2", len(songs))
	}

	first := songs[0]
	if first.ID != 186016 || first.Name != "晴天" || first.Artist != "周杰伦" {
		t.Errorf("unexpected first song: %+v", first)
	}
	if first.Album != "叶惠美" {
		t.Errorf("Album = %q, want %q", first.Album, "叶惠美")
	}
	if first.Duration != 269*time.Second {
		t.Errorf("Duration = %v, want %v", first.Duration, 269*time.Second)
	}
	if first.CoverURL != "https://p2.music.126.net/cover.jpg?param=140y140" {
		t.Errorf("CoverURL = %q, want sized thumbnail", first.CoverURL)
	}

	second := songs[1]
	if second.Artist != "朴树" {
		t.Errorf("Artist = %q, empty artist names should be dropped", second.Artist)
	}
	if second.Album != "未知专辑" {
		t.Errorf("Album = %q, want the unknown album placeholder", second.Album)
	}
	if second.CoverURL != "https://fallback.example/cover.jpg" {
		t.Errorf("CoverURL = %q, want the fallback cover", second.CoverURL)
	}
}

func TestSearchTruncatesToLimit(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"result": {
				"songs": [
					{"id": 1, "name": "one", "ar": [], "al": {}, "dt": 1000},
					{"id": 2, "name": "two", "ar": [], "al": {}, "dt": 1000},
					{"id": 3, "name": "three", "ar": [], "al": {}, "dt": 1000}
				],
				"songCount": 3
			},
			"code": 200
		}`))
	}))

	songs, err := client.Search(context.Background(), "three songs", 2, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(songs) != 2 {
		t.Errorf("got %d songs, want 2 after truncation", len(songs))
	}
	if songs[0].ID != 1 || songs[1].ID != 2 {
		t.Errorf("truncation should keep the leading entries, got %+v", songs)
	}
}

func TestSearchSkipsMalformedEntries(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"result": {
				"songs": [
					{"id": 0, "name": "no id", "ar": [], "al": {}, "dt": 1000},
					{"id": 2, "name": "", "ar": [], "al": {}, "dt": 1000},
					{"id": 3, "name": "kept", "ar": [{"name": "someone"}], "al": {}, "dt": 1000}
				],
				"songCount": 3
			},
			"code": 200
		}`))
	}))

	songs, err := client.Search(context.Background(), "mixed", 10, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("got %d songs, want 1 after skipping malformed entries", len(songs))
	}
	if songs[0].ID != 3 || songs[0].Name != "kept" {
		t.Errorf("unexpected surviving song: %+v", songs[0])
	}
}

func TestSearchNoResults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			"empty song list",
			`{"result": {"songs": [], "songCount": 0}, "code": 200}`,
		},
		{
			"missing result object",
			`{"code": 200}`,
		},
		{
			"all entries malformed",
			`{"result": {"songs": [{"id": 0, "name": ""}, {"id": -5, "name": "x"}], "songCount": 2}, "code": 200}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))

			_, err := client.Search(context.Background(), "nothing", 10, "")
			if !errors.Is(err, core.ErrNoResults) {
				t.Errorf("Search error = %v, want ErrNoResults", err)
			}
		})
	}
}

func TestSearchServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Search(context.Background(), "boom", 10, "")
	if err == nil {
		t.Fatal("Search should fail on a non-200 response")
	}
	if errors.Is(err, core.ErrNoResults) {
		t.Error("transport errors must not masquerade as empty results")
	}
}

func TestSearchWithoutSession(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL}, zap.NewNop(), nil)

	_, err := client.Search(context.Background(), "anything", 10, "")
	var cfgErr *core.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Search error = %v, want ConfigError", err)
	}
	if requests.Load() != 0 {
		t.Error("no request should be made without a session")
	}
}

const detailSongJSON = `{"id": 186016, "name": "晴天", "ar": [{"name": "周杰伦"}], "al": {"name": "叶惠美", "picUrl": "https://p2.music.126.net/cover.jpg"}, "dt": 269000}`

func TestTrackDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			"plain object response",
			`{"songs": [` + detailSongJSON + `], "privileges": [], "code": 200}`,
		},
		{
			"tagged pair response",
			`[200, {"songs": [` + detailSongJSON + `], "code": 200}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v3/song/detail" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				if got := r.URL.Query().Get("c"); got != `[{"id":186016}]` {
					t.Errorf("c param = %q", got)
				}
				w.Write([]byte(tt.body))
			}))

			detail, err := client.TrackDetail(context.Background(), 186016)
			if err != nil {
				t.Fatalf("TrackDetail failed: %v", err)
			}
			if detail.ID != 186016 || detail.Name != "晴天" || detail.Artist != "周杰伦" {
				t.Errorf("unexpected detail: %+v", detail)
			}
			if detail.PicURL != "https://p2.music.126.net/cover.jpg" {
				t.Errorf("PicURL = %q, want the raw cover URL", detail.PicURL)
			}
			if detail.Duration != 269*time.Second {
				t.Errorf("Duration = %v, want %v", detail.Duration, 269*time.Second)
			}
		})
	}
}

func TestTrackDetailCached(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"songs": [` + detailSongJSON + `], "code": 200}`))
	}))

	for i := 0; i < 3; i++ {
		if _, err := client.TrackDetail(context.Background(), 186016); err != nil {
			t.Fatalf("TrackDetail call %d failed: %v", i, err)
		}
	}

	if got := requests.Load(); got != 1 {
		t.Errorf("made %d requests, want 1 with a warm cache", got)
	}
}

func TestTrackDetailNotFound(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"songs": [], "privileges": [], "code": 200}`))
	}))

	_, err := client.TrackDetail(context.Background(), 999999999)
	if !errors.Is(err, core.ErrSongNotFound) {
		t.Fatalf("TrackDetail error = %v, want ErrSongNotFound", err)
	}

	// The miss is remembered, so the retry never reaches the network.
	_, err = client.TrackDetail(context.Background(), 999999999)
	if !errors.Is(err, core.ErrSongNotFound) {
		t.Fatalf("second TrackDetail error = %v, want ErrSongNotFound", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("made %d requests, want 1 for a remembered miss", got)
	}
}

func TestTrackDetailWithoutSession(t *testing.T) {
	client := NewClient(&Config{BaseURL: "http://127.0.0.1:0"}, zap.NewNop(), nil)

	_, err := client.TrackDetail(context.Background(), 186016)
	var cfgErr *core.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("TrackDetail error = %v, want ConfigError", err)
	}
}

func TestUnwrapDetail(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSongs int
		wantErr   bool
	}{
		{"plain object", `{"songs": [` + detailSongJSON + `], "code": 200}`, 1, false},
		{"tagged pair", `[200, {"songs": [` + detailSongJSON + `], "code": 200}]`, 1, false},
		{"leading whitespace", "\n\t [200, {\"songs\": [], \"code\": 200}]", 0, false},
		{"short array", `[200]`, 0, true},
		{"not json", `<html>rate limited</html>`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := unwrapDetail([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unwrapDetail failed: %v", err)
			}
			if len(resp.Songs) != tt.wantSongs {
				t.Errorf("got %d songs, want %d", len(resp.Songs), tt.wantSongs)
			}
		})
	}
}

func TestClientBaseURLNormalization(t *testing.T) {
	client := NewClient(&Config{BaseURL: "https://proxy.example/"}, zap.NewNop(), nil)
	if client.baseURL != "https://proxy.example" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}

	client = NewClient(&Config{}, zap.NewNop(), nil)
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
}

func TestDurationFromMillis(t *testing.T) {
	if got := durationFromMillis(269000); got != 269*time.Second {
		t.Errorf("durationFromMillis(269000) = %v, want %v", got, 269*time.Second)
	}
	if got := durationFromMillis(-5); got != 0 {
		t.Errorf("durationFromMillis(-5) = %v, want 0", got)
	}
}
