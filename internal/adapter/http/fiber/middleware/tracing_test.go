package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
)

func TestTracing(t *testing.T) {
	// Arrange
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	defer otel.SetTracerProvider(prev)

	var handlerSpan trace.SpanContext
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Use(Tracing())
	app.Get("/ok", func(c *fiber.Ctx) error {
		handlerSpan = trace.SpanContextFromContext(c.UserContext())
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/down", func(c *fiber.Ctx) error {
		return domain.ErrUpstream
	})

	// Act
	for _, path := range []string{"/ok", "/down"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
	}

	// Assert
	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	if spans[0].Name() != "GET /ok" || spans[0].SpanKind() != trace.SpanKindServer {
		t.Errorf("first span = %q kind %v", spans[0].Name(), spans[0].SpanKind())
	}
	if !handlerSpan.IsValid() || handlerSpan.SpanID() != spans[0].SpanContext().SpanID() {
		t.Error("handler did not see the request span in UserContext")
	}
	if spans[0].Status().Code == codes.Error {
		t.Error("200 response marked as error")
	}
	if spans[1].Status().Code != codes.Error {
		t.Errorf("502 span status = %v, want Error", spans[1].Status().Code)
	}
}
