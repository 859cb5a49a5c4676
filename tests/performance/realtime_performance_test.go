package performance_test

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/handler"
	"github.com/talentgate-labs/talentgate-api/internal/middleware"
	"github.com/talentgate-labs/talentgate-api/internal/service"
)

func TestProctorFeedWebsocketP95Under250ms(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())

	feed := &stubFeedService{}
	proctorHandler := handler.NewProctorHandler(stubProctorService{}, feed, zerolog.Nop())

	recruiterGroup := app.Group("/api/v1/recruiter", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(42))
		c.Locals("user_role", middleware.RoleRecruiter)
		return c.Next()
	})
	proctorHandler.RegisterRecruiter(recruiterGroup)

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/recruiter/proctor/feed/ws"
	clients := 500
	durations := make([]time.Duration, 0, clients)

	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	for i := 0; i < clients; i++ {
		start := time.Now()
		conn, resp, err := dialer.Dial(url, http.Header{"X-Correlation-ID": {"perf-" + strconv.Itoa(i)}})
		if err != nil {
			t.Fatalf("websocket dial failed: %v", err)
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		_, _, _ = conn.ReadMessage()
		_ = conn.Close()

		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p95 := percentile(durations, 0.95)

	if p95 > 250*time.Millisecond {
		t.Fatalf("expected websocket P95 <= 250ms, got %s", p95)
	}
}

func percentile(values []time.Duration, pct float64) time.Duration {
	if len(values) == 0 {
		return 0
	}
	index := int(math.Ceil(pct*float64(len(values)))) - 1
	if index < 0 {
		index = 0
	}
	if index >= len(values) {
		index = len(values) - 1
	}
	return values[index]
}

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}

type stubFeedService struct{}

func (s *stubFeedService) ServeConnection(conn *fiberws.Conn, _ service.FeedConnectionOptions) {
	_ = conn.WriteMessage(fiberws.TextMessage, []byte(`{"type":"connection_ack"}`))
	_ = conn.Close()
}

func (s *stubFeedService) Publish(context.Context, dto.ProctorFeedEvent) {}

func (s *stubFeedService) Start(context.Context) {}

type stubProctorService struct{}

func (stubProctorService) StartSession(context.Context, uint, dto.ProctorSessionStartRequest) (dto.ProctorSessionResponse, error) {
	return dto.ProctorSessionResponse{}, nil
}

func (stubProctorService) EndSession(context.Context, uint, string, dto.ProctorSessionEndRequest) (dto.ProctorSessionResponse, error) {
	return dto.ProctorSessionResponse{}, nil
}

func (stubProctorService) ReportViolation(context.Context, uint, dto.ProctorViolationRequest) (dto.ProctorViolationResponse, error) {
	return dto.ProctorViolationResponse{}, nil
}

func (stubProctorService) SessionSummary(context.Context, string) (dto.ProctorSessionSummaryResponse, error) {
	return dto.ProctorSessionSummaryResponse{}, nil
}

func (stubProctorService) ListCandidateSessions(context.Context, uint) ([]dto.ProctorSessionResponse, error) {
	return nil, nil
}
