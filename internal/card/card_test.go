package card

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestPlayURL(t *testing.T) {
	result := PlayURL(186016)
	expected := "https://music.163.com/song/media/outer/url?id=186016.mp3"
	if result != expected {
		t.Errorf("PlayURL(186016) = %q, want %q", result, expected)
	}
}

func TestJumpURL(t *testing.T) {
	result := JumpURL(186016)
	expected := "https://music.163.com/#/song?id=186016"
	if result != expected {
		t.Errorf("JumpURL(186016) = %q, want %q", result, expected)
	}
}

func TestCoverURL(t *testing.T) {
	tests := []struct {
		name     string
		picURL   string
		size     int
		expected string
		ok       bool
	}{
		{"appends size parameter", "https://p2.music.126.net/abc.jpg", 500, "https://p2.music.126.net/abc.jpg?param=500y500", true},
		{"thumbnail size", "https://p2.music.126.net/abc.jpg", 140, "https://p2.music.126.net/abc.jpg?param=140y140", true},
		{"no art", "", 500, "", false},
		{"zero size disables cover", "https://p2.music.126.net/abc.jpg", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := CoverURL(tt.picURL, tt.size)
			if result != tt.expected || ok != tt.ok {
				t.Errorf("CoverURL(%q, %d) = (%q, %v), want (%q, %v)",
					tt.picURL, tt.size, result, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestSignedCard(t *testing.T) {
	request := Request{
		SongID:   186016,
		Title:    "晴天",
		Artist:   "周杰伦",
		CoverURL: "https://p2.music.126.net/abc.jpg?param=500y500",
		MusicURL: PlayURL(186016),
	}

	tests := []struct {
		name            string
		status          int
		body            string
		expectedPayload string
		expectedOK      bool
	}{
		{"signed payload", http.StatusOK, `{"code":1,"message":"{\"app\":\"com.tencent.structmsg\"}"}`, `{"app":"com.tencent.structmsg"}`, true},
		{"declined code", http.StatusOK, `{"code":0,"message":"rate limited"}`, "", false},
		{"empty message", http.StatusOK, `{"code":1,"message":""}`, "", false},
		{"server error", http.StatusInternalServerError, `{"code":1,"message":"x"}`, "", false},
		{"malformed body", http.StatusOK, `{"code":`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("Method = %s, want POST", r.Method)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("ParseForm failed: %v", err)
				}
				if got := r.PostForm.Get("format"); got != "163" {
					t.Errorf("form format = %q, want %q", got, "163")
				}
				if got := r.PostForm.Get("song"); got != request.Title {
					t.Errorf("form song = %q, want %q", got, request.Title)
				}
				if got := r.PostForm.Get("jump"); got != JumpURL(request.SongID) {
					t.Errorf("form jump = %q, want %q", got, JumpURL(request.SongID))
				}

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			signer := NewSigner(server.URL, zap.NewNop())

			payload, ok := signer.SignedCard(context.Background(), request)
			if ok != tt.expectedOK {
				t.Fatalf("SignedCard() ok = %v, want %v", ok, tt.expectedOK)
			}
			if payload != tt.expectedPayload {
				t.Errorf("SignedCard() payload = %q, want %q", payload, tt.expectedPayload)
			}
		})
	}
}

func TestSignedCardEndpointUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	signer := NewSigner(server.URL, zap.NewNop())

	payload, ok := signer.SignedCard(context.Background(), Request{SongID: 1, Title: "x"})
	if ok || payload != "" {
		t.Errorf("SignedCard() against closed endpoint = (%q, %v), want empty and false", payload, ok)
	}
}

func TestNewSignerDefaultEndpoint(t *testing.T) {
	signer := NewSigner("", zap.NewNop())
	if signer.apiURL != DefaultAPIURL {
		t.Errorf("apiURL = %q, want %q", signer.apiURL, DefaultAPIURL)
	}
}
