package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/observability"
)

const feedSendBufferSize = 64

// FeedConnectionOptions wraps metadata extracted during the HTTP upgrade.
type FeedConnectionOptions struct {
	RecruiterID   string
	CandidateID   uint
	CorrelationID string
	Context       context.Context
}

// ProctorFeedService streams violation events to subscribed recruiters and
// fans them out across instances via Redis pub/sub and NATS.
type ProctorFeedService interface {
	ServeConnection(conn *websocket.Conn, opts FeedConnectionOptions)
	Publish(ctx context.Context, event dto.ProctorFeedEvent)
	Start(ctx context.Context)
}

type proctorFeedService struct {
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	hub         *feedHub
	nodeID      string
}

type feedHub struct {
	mu      sync.RWMutex
	clients map[*feedClient]struct{}
	log     zerolog.Logger
}

type feedClient struct {
	conn    *websocket.Conn
	send    chan dto.ProctorFeedEvent
	options FeedConnectionOptions
	service *proctorFeedService
	closed  chan struct{}
	once    sync.Once
}

type feedEnvelope struct {
	Source string               `json:"source"`
	Event  dto.ProctorFeedEvent `json:"event"`
	SentAt time.Time            `json:"sent_at"`
}

// NewProctorFeedService creates the live violation feed.
func NewProctorFeedService(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) ProctorFeedService {
	hub := &feedHub{
		clients: make(map[*feedClient]struct{}),
		log:     logger.With().Str("component", "proctor_feed_hub").Logger(),
	}

	streamChannel := ""
	natsSubject := ""
	if channelBase != "" {
		streamChannel = channelBase + ":feed"
		natsSubject = strings.ReplaceAll(channelBase, ":", ".") + ".feed"
	}

	return &proctorFeedService{
		redis:       redisClient,
		redisStream: streamChannel,
		nats:        natsConn,
		natsSubject: natsSubject,
		logger:      logger.With().Str("component", "proctor_feed_service").Logger(),
		hub:         hub,
		nodeID:      uuid.NewString(),
	}
}

func (s *proctorFeedService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *proctorFeedService) ServeConnection(conn *websocket.Conn, opts FeedConnectionOptions) {
	client := &feedClient{
		conn:    conn,
		send:    make(chan dto.ProctorFeedEvent, feedSendBufferSize),
		options: opts,
		service: s,
		closed:  make(chan struct{}),
	}

	s.hub.register(client)
	observability.FeedConnections().Inc()
	defer observability.FeedConnections().Dec()

	go client.writer()
	client.reader()
}

// Publish delivers an event to local subscribers and to peer instances.
func (s *proctorFeedService) Publish(ctx context.Context, event dto.ProctorFeedEvent) {
	s.hub.broadcast(event)
	observability.FeedEvents().WithLabelValues(event.ViolationType).Inc()

	envelope := feedEnvelope{
		Source: s.nodeID,
		Event:  event,
		SentAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal feed event")
		return
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish feed event to redis")
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish feed event to nats")
		}
	}
}

func (s *proctorFeedService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("feed redis subscription closed")
			return
		}
		s.handleEnvelope([]byte(msg.Payload))
	}
}

func (s *proctorFeedService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "talentgate-feed", func(msg *nats.Msg) {
		s.handleEnvelope(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats feed subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain feed nats subscription")
		}
	}()
}

func (s *proctorFeedService) handleEnvelope(data []byte) {
	var envelope feedEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("invalid feed event")
		return
	}

	if envelope.Source == s.nodeID {
		return
	}

	observability.FeedEvents().WithLabelValues(envelope.Event.ViolationType).Inc()
	s.hub.broadcast(envelope.Event)
}

func (h *feedHub) register(client *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	h.log.Debug().Str("recruiter_id", client.options.RecruiterID).Msg("feed client connected")
}

func (h *feedHub) unregister(client *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
	h.log.Debug().Str("recruiter_id", client.options.RecruiterID).Msg("feed client disconnected")
}

func (h *feedHub) broadcast(event dto.ProctorFeedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.options.CandidateID != 0 && client.options.CandidateID != event.CandidateID {
			continue
		}
		select {
		case client.send <- event:
		default:
			h.log.Warn().Str("recruiter_id", client.options.RecruiterID).Msg("dropping feed event for slow client")
		}
	}
}

// reader drains the connection so close frames and pings are processed. The
// feed is push-only; inbound payloads are discarded.
func (c *feedClient) reader() {
	defer c.close()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.service.logger.Debug().Err(err).Msg("feed read loop ended")
			return
		}
	}
}

func (c *feedClient) writer() {
	defer c.close()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.service.logger.Debug().Err(err).Msg("feed write loop terminated")
				return
			}
		case <-time.After(30 * time.Second):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Msg("feed ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *feedClient) close() {
	c.once.Do(func() {
		close(c.closed)
		c.service.hub.unregister(c)
		_ = c.conn.Close()
	})
}
