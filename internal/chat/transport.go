// Package chat provides a unified interface for chat transports and the
// chat key format that routes deliveries to them.
package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// TargetKind distinguishes group chats from direct chats.
type TargetKind string

// Target kinds accepted in chat keys
const (
	TargetGroup   TargetKind = "group"
	TargetPrivate TargetKind = "private"
)

// TransportOneBotV11 is the transport name for OneBot v11 HTTP hosts.
const TransportOneBotV11 = "onebot_v11"

// Target identifies a chat endpoint on a transport.
type Target struct {
	Kind TargetKind
	ID   int64
}

// Transport defines the unified interface for all chat integrations.
// Implementations return an error when the host rejects a send; callers
// decide whether to degrade to a simpler delivery.
type Transport interface {
	// Name reports the transport identifier used in chat keys
	Name() string

	// SendText sends a plain text message to the target
	SendText(ctx context.Context, target Target, text string) error

	// SendImage sends an image referenced by URL or base64 payload
	SendImage(ctx context.Context, target Target, file string) error

	// SendVoice sends an audio clip referenced by URL
	SendVoice(ctx context.Context, target Target, file string) error

	// SendCard sends a pre-signed JSON card payload
	SendCard(ctx context.Context, target Target, payload string) error

	// SendMusicShare sends the host's native music share for a catalog song
	SendMusicShare(ctx context.Context, target Target, songID int64) error
}

// KeyFormatError reports a chat key that does not follow the
// "<transport>-<kind>_<id>" format.
type KeyFormatError struct {
	Raw    string
	Reason string
}

func (e *KeyFormatError) Error() string {
	return fmt.Sprintf("invalid chat key %q: %s", e.Raw, e.Reason)
}

// ParseKey splits a chat key "<transport>-<kind>_<id>" into its transport
// name and target. Transport names may contain underscores, so the key is
// cut at the first '-' and then at the first '_' of the remainder.
func ParseKey(key string) (string, Target, error) {
	transport, rest, found := strings.Cut(key, "-")
	if !found || transport == "" {
		return "", Target{}, &KeyFormatError{Raw: key, Reason: "missing transport separator"}
	}

	kind, rawID, found := strings.Cut(rest, "_")
	if !found {
		return "", Target{}, &KeyFormatError{Raw: key, Reason: "missing target separator"}
	}

	switch TargetKind(kind) {
	case TargetGroup, TargetPrivate:
	default:
		return "", Target{}, &KeyFormatError{Raw: key, Reason: fmt.Sprintf("unknown target kind %q", kind)}
	}

	if rawID == "" || strings.IndexFunc(rawID, notDigit) >= 0 {
		return "", Target{}, &KeyFormatError{Raw: key, Reason: fmt.Sprintf("target id %q is not numeric", rawID)}
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return "", Target{}, &KeyFormatError{Raw: key, Reason: fmt.Sprintf("target id %q out of range", rawID)}
	}

	return transport, Target{Kind: TargetKind(kind), ID: id}, nil
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}
