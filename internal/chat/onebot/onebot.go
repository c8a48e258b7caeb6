// Package onebot provides OneBot v11 HTTP API integration for QQ hosts.
package onebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"cloudjuke/internal/chat"
)

const (
	// DefaultAPIURL targets a OneBot host on the local machine.
	DefaultAPIURL = "http://127.0.0.1:3000"
	// musicShareType selects the NetEase card on the music segment.
	musicShareType = "163"
	// maxResponseBytes caps host response reads.
	maxResponseBytes = 1 << 20

	actionSendGroup   = "send_group_msg"
	actionSendPrivate = "send_private_msg"
)

// Config holds OneBot-specific configuration
type Config struct {
	APIURL      string
	AccessToken string // optional bearer token for the HTTP API
}

// Client implements the chat.Transport interface for OneBot v11 hosts
// speaking the HTTP API.
type Client struct {
	config  *Config
	logger  *zap.Logger
	http    *http.Client
	baseURL string
}

// NewClient creates a new OneBot transport. Request deadlines are the
// caller's responsibility via ctx.
func NewClient(config *Config, logger *zap.Logger) *Client {
	baseURL := config.APIURL
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	return &Client{
		config:  config,
		logger:  logger,
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name reports the transport identifier used in chat keys
func (c *Client) Name() string {
	return chat.TransportOneBotV11
}

// SendText sends a plain text message to the target
func (c *Client) SendText(ctx context.Context, target chat.Target, text string) error {
	return c.send(ctx, target, []segment{textSegment(text)})
}

// SendImage sends an image referenced by URL or base64 payload
func (c *Client) SendImage(ctx context.Context, target chat.Target, file string) error {
	return c.send(ctx, target, []segment{imageSegment(file)})
}

// SendVoice sends an audio clip referenced by URL
func (c *Client) SendVoice(ctx context.Context, target chat.Target, file string) error {
	return c.send(ctx, target, []segment{recordSegment(file)})
}

// SendCard sends a pre-signed JSON card payload
func (c *Client) SendCard(ctx context.Context, target chat.Target, payload string) error {
	return c.send(ctx, target, []segment{jsonSegment(payload)})
}

// SendMusicShare sends the host's native NetEase music share
func (c *Client) SendMusicShare(ctx context.Context, target chat.Target, songID int64) error {
	return c.send(ctx, target, []segment{musicSegment(songID)})
}

// segment is one element of a OneBot v11 message array.
type segment struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func textSegment(text string) segment {
	return segment{Type: "text", Data: map[string]any{"text": text}}
}

func imageSegment(file string) segment {
	return segment{Type: "image", Data: map[string]any{"file": file}}
}

func recordSegment(file string) segment {
	return segment{Type: "record", Data: map[string]any{"file": file}}
}

func jsonSegment(data string) segment {
	return segment{Type: "json", Data: map[string]any{"data": data}}
}

func musicSegment(songID int64) segment {
	// Hosts expect the id as a string per the v11 segment reference.
	return segment{Type: "music", Data: map[string]any{
		"type": musicShareType,
		"id":   strconv.FormatInt(songID, 10),
	}}
}

type apiResponse struct {
	Status  string `json:"status"`
	Retcode int    `json:"retcode"`
}

// send posts a single message action to the host and checks its retcode.
func (c *Client) send(ctx context.Context, target chat.Target, segments []segment) error {
	action := actionSendPrivate
	payload := map[string]any{"user_id": target.ID, "message": segments}
	if target.Kind == chat.TargetGroup {
		action = actionSendGroup
		payload = map[string]any{"group_id": target.ID, "message": segments}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+action, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", action, resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", action, err)
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}

	if result.Retcode != 0 {
		return fmt.Errorf("%s rejected with retcode %d (status %q)", action, result.Retcode, result.Status)
	}

	c.logger.Debug("Message delivered",
		zap.String("action", action),
		zap.String("kind", string(target.Kind)),
		zap.Int64("target", target.ID),
		zap.String("segment", segments[0].Type))

	return nil
}
