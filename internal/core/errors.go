package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoResults indicates a search produced no usable songs.
	ErrNoResults = errors.New("no songs found")
	// ErrSongNotFound indicates the catalog has no song with the requested ID.
	ErrSongNotFound = errors.New("song not found")
)

// ConfigError reports an unusable catalog credential. An empty Missing list
// means no cookie is configured at all.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	if len(e.Missing) == 0 {
		return "catalog cookie not configured"
	}
	return fmt.Sprintf("catalog cookie missing required fields: %s", strings.Join(e.Missing, ", "))
}
