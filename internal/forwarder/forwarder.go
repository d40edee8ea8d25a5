// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package forwarder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/metrics"
	"github.com/appwrite/sdk-for-react-native-sub000/pkg/realtime"
)

// ErrClosed is returned by Forward after Close.
var ErrClosed = errors.New("forwarder is closed")

// Metadata keys set on every forwarded message.
const (
	MetadataChannels  = "appwrite_channels"
	MetadataEvents    = "appwrite_events"
	MetadataTimestamp = "appwrite_timestamp"
)

// Config holds forwarder configuration.
type Config struct {
	URL           string
	SubjectPrefix string

	// JetStream publishes through JetStream with stream auto-provisioning
	// and Nats-Msg-Id deduplication. Core NATS is used otherwise.
	JetStream bool

	MaxReconnects int
	ReconnectWait time.Duration

	// BreakerFailures consecutive failures open the breaker for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultConfig returns production defaults for url.
func DefaultConfig(url string) Config {
	return Config{
		URL:             url,
		SubjectPrefix:   "appwrite.realtime",
		MaxReconnects:   -1, // Unlimited
		ReconnectWait:   2 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Forwarder republishes realtime events onto NATS subjects.
// Publishes go through a circuit breaker so a dead broker fails fast
// instead of stalling the realtime callback goroutines.
type Forwarder struct {
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[interface{}]
	prefix    string
	jetstream bool
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// New connects a Watermill NATS publisher and wraps it in a Forwarder.
func New(cfg Config) (*Forwarder, error) {
	log := logging.WithComponent("forwarder")
	wmLogger := watermill.NewSlogLogger(logging.NewSlogLoggerWithComponent("watermill"))

	natsOpts := []natsgo.Option{
		natsgo.Name("appwrite-realtime-forwarder"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      !cfg.JetStream,
			AutoProvision: cfg.JetStream,
			TrackMsgId:    cfg.JetStream,
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	f := NewWithPublisher(cfg, pub)
	f.log.Info().Str("url", cfg.URL).Bool("jetstream", cfg.JetStream).Msg("NATS forwarder connected")
	return f, nil
}

// NewWithPublisher wraps an existing Watermill publisher.
func NewWithPublisher(cfg Config, pub message.Publisher) *Forwarder {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "appwrite.realtime"
	}
	return &Forwarder{
		publisher: pub,
		breaker:   newBreaker("nats-forwarder", cfg.BreakerFailures, cfg.BreakerTimeout),
		prefix:    strings.TrimSuffix(cfg.SubjectPrefix, "."),
		jetstream: cfg.JetStream,
		log:       logging.WithComponent("forwarder"),
	}
}

// newBreaker builds the publish circuit breaker and reports its transitions.
func newBreaker(name string, failures uint32, timeout time.Duration) *gobreaker.CircuitBreaker[interface{}] {
	if failures == 0 {
		failures = 5
	}
	log := logging.WithComponent("forwarder")
	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String(), int(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
}

// Forward publishes ev to <prefix>.<first channel>.
func (f *Forwarder) Forward(ctx context.Context, ev realtime.Event) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := f.newMessage(ev)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	topic := f.Subject(ev)

	start := time.Now()
	_, err = f.breaker.Execute(func() (interface{}, error) {
		return nil, f.publisher.Publish(topic, msg)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordForward("rejected", 0)
		return fmt.Errorf("publish %s: %w", topic, err)
	case err != nil:
		metrics.RecordForward("error", time.Since(start))
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.RecordForward("success", time.Since(start))
	return nil
}

// Handle is a realtime callback that forwards ev and logs failures.
func (f *Forwarder) Handle(ev realtime.Event) {
	if err := f.Forward(context.Background(), ev); err != nil && !errors.Is(err, ErrClosed) {
		f.log.Warn().Err(err).Strs("channels", ev.Channels).Msg("Failed to forward realtime event")
	}
}

func (f *Forwarder) newMessage(ev realtime.Event) (*message.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set(MetadataChannels, strings.Join(ev.Channels, ","))
	msg.Metadata.Set(MetadataEvents, strings.Join(ev.Events, ","))
	if !ev.Timestamp.IsZero() {
		msg.Metadata.Set(MetadataTimestamp, ev.Timestamp.UTC().Format(time.RFC3339Nano))
	}
	if f.jetstream {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}
	return msg, nil
}

// Subject returns the NATS subject an event is published on.
func (f *Forwarder) Subject(ev realtime.Event) string {
	channel := "unknown"
	if len(ev.Channels) > 0 {
		channel = SanitizeSubject(ev.Channels[0])
	}
	return f.prefix + "." + channel
}

// SanitizeSubject maps a channel name onto valid NATS subject tokens.
// Wildcards and whitespace become underscores and empty tokens are dropped.
func SanitizeSubject(channel string) string {
	tokens := strings.Split(channel, ".")
	out := tokens[:0]
	for _, tok := range tokens {
		tok = strings.Map(func(r rune) rune {
			switch r {
			case '*', '>', ' ', '\t', '\r', '\n':
				return '_'
			}
			return r
		}, tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	if len(out) == 0 {
		return "unknown"
	}
	return strings.Join(out, ".")
}

// BreakerState reports the circuit breaker state: closed, half-open or open.
func (f *Forwarder) BreakerState() string {
	return f.breaker.State().String()
}

// Close shuts down the underlying publisher. It is safe to call more than once.
func (f *Forwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.publisher.Close()
}
