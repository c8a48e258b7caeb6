package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		contains []string
	}{
		{
			name:     "No cookie configured",
			err:      &ConfigError{},
			contains: []string{"not configured"},
		},
		{
			name:     "One key missing",
			err:      &ConfigError{Missing: []string{"MUSIC_U"}},
			contains: []string{"missing", "MUSIC_U"},
		},
		{
			name:     "Both keys missing",
			err:      &ConfigError{Missing: []string{"MUSIC_U", "__csrf"}},
			contains: []string{"MUSIC_U, __csrf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(message, want) {
					t.Errorf("Error() = %q, expected it to contain %q", message, want)
				}
			}
		})
	}
}

func TestConfigErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("session setup failed: %w", &ConfigError{Missing: []string{"__csrf"}})

	var configErr *ConfigError
	if !errors.As(wrapped, &configErr) {
		t.Fatal("errors.As should find the ConfigError through wrapping")
	}
	if len(configErr.Missing) != 1 || configErr.Missing[0] != "__csrf" {
		t.Errorf("Missing = %v, expected [__csrf]", configErr.Missing)
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	if errors.Is(ErrNoResults, ErrSongNotFound) {
		t.Error("ErrNoResults and ErrSongNotFound must not match each other")
	}

	wrapped := fmt.Errorf("search %q: %w", "晴天", ErrNoResults)
	if !errors.Is(wrapped, ErrNoResults) {
		t.Error("wrapped ErrNoResults should still match errors.Is")
	}
}
