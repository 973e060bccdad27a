package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client is a thin JSON client for the /api/v1 surface.
type Client struct {
	base  string
	token string
	http  *retryablehttp.Client
	log   *zap.Logger
}

func NewClient(base, token string, log *zap.Logger) *Client {
	hc := retryablehttp.NewClient()
	hc.RetryMax = 3
	hc.RetryWaitMin = 200 * time.Millisecond
	hc.RetryWaitMax = 2 * time.Second
	hc.HTTPClient.Timeout = 60 * time.Second
	hc.Logger = leveledLogger{log.Sugar()}
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  hc,
		log:   log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base+"/api/v1"+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	User   *domain.User   `json:"user"`
	Vendor *domain.Vendor `json:"vendor"`
	Tokens Tokens         `json:"tokens"`
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	c.token = out.Tokens.AccessToken
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	var out struct {
		Tokens Tokens `json:"tokens"`
	}
	req := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	c.token = out.Tokens.AccessToken
	return &out.Tokens, nil
}

func (c *Client) Listen(ctx context.Context, locale string) (*domain.VoiceSession, error) {
	var out domain.VoiceSession
	err := c.do(ctx, http.MethodPost, "/voice/listen", map[string]string{"locale": locale}, &out)
	return &out, err
}

func (c *Client) Transcript(ctx context.Context, transcript string) (*domain.VoiceSession, error) {
	var out domain.VoiceSession
	err := c.do(ctx, http.MethodPost, "/voice/transcript", map[string]string{"transcript": transcript}, &out)
	return &out, err
}

func (c *Client) Confirm(ctx context.Context) (*ports.VoiceConfirmation, error) {
	var out ports.VoiceConfirmation
	err := c.do(ctx, http.MethodPost, "/voice/confirm", nil, &out)
	return &out, err
}

func (c *Client) Ledger(ctx context.Context, filter domain.LedgerFilter) (*domain.LedgerView, error) {
	q := url.Values{}
	if filter.Date != "" {
		q.Set("date", string(filter.Date))
	}
	if filter.Type != "" {
		q.Set("type", string(filter.Type))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	path := "/ledger"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out domain.LedgerView
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return &out, err
}

// Watch streams realtime events until ctx is cancelled or the server closes the socket.
func (c *Client) Watch(ctx context.Context, handle func(domain.Event)) error {
	u, err := url.Parse(c.base)
	if err != nil {
		return fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/updates"
	u.RawQuery = url.Values{"token": {c.token}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		var evt domain.Event
		if err := json.Unmarshal(data, &evt); err != nil {
			c.log.Warn("Skipping malformed event", zap.Error(err))
			continue
		}
		handle(evt)
	}
}

// leveledLogger adapts zap to retryablehttp's logger interface.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
