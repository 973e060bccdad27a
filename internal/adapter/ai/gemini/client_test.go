package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/infrastructure/circuitbreaker"
	"github.com/mru-labs/merchant-os/pkg/config"
)

type capturedRequest struct {
	path   string
	apiKey string
}

func newTestServer(t *testing.T, status int, body string, got *capturedRequest, gotPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.path = r.URL.Path
			got.apiKey = r.Header.Get("x-goog-api-key")
		}
		if gotPrompt != nil {
			raw, _ := io.ReadAll(r.Body)
			var req struct {
				Contents []struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
			}
			_ = json.Unmarshal(raw, &req)
			if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
				*gotPrompt = req.Contents[0].Parts[0].Text
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestGenerateText(t *testing.T) {
	var (
		got    capturedRequest
		prompt string
	)
	srv := newTestServer(t, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"thinking...","thought":true},{"text":"{\"item\":"},{"text":"\"rice\"}"}]}}],"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":5}}`, &got, &prompt)
	defer srv.Close()

	client, err := NewClient(context.Background(), Options{
		APIKey:   "test-key",
		Model:    "gemini-1.5-flash",
		Endpoint: srv.URL + "/",
		Timeout:  5 * time.Second,
	}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	reply, err := client.GenerateText(context.Background(), "sold 2 rice")
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}

	if reply != `{"item":"rice"}` {
		t.Errorf("reply = %q", reply)
	}
	if !strings.HasSuffix(got.path, "models/gemini-1.5-flash:generateContent") {
		t.Errorf("path = %q", got.path)
	}
	if got.apiKey != "test-key" {
		t.Errorf("api key header = %q", got.apiKey)
	}
	if prompt != "sold 2 rice" {
		t.Errorf("prompt = %q", prompt)
	}
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"candidates":[]}`, nil, nil)
	defer srv.Close()

	client, _ := NewClient(context.Background(), Options{APIKey: "k", Endpoint: srv.URL + "/"}, nil, zap.NewNop())

	if _, err := client.GenerateText(context.Background(), "hello there"); !errors.Is(err, ErrEmptyReply) {
		t.Errorf("error = %v, want ErrEmptyReply", err)
	}
}

func TestGenerateTextBreakerOpens(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `{"error":{"code":500,"message":"boom"}}`, nil, nil)
	defer srv.Close()

	breaker := circuitbreaker.New("gemini-test", config.CircuitBreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}, zap.NewNop())
	client, _ := NewClient(context.Background(), Options{APIKey: "k", Endpoint: srv.URL + "/"}, breaker, zap.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := client.GenerateText(context.Background(), "hello there"); err == nil {
			t.Fatal("expected upstream error")
		}
	}

	_, err := client.GenerateText(context.Background(), "hello there")
	if !errors.Is(err, circuitbreaker.ErrOpen) {
		t.Errorf("error = %v, want ErrOpen", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Options{}, nil, zap.NewNop()); err == nil {
		t.Error("expected error without api key")
	}
}
