// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/metrics"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/validation"
)

const (
	// DefaultConnectDebounce coalesces bursts of Subscribe/Unsubscribe calls
	// into a single reconnect.
	DefaultConnectDebounce = 50 * time.Millisecond

	// DefaultHeartbeatInterval is the ping period while a socket is open.
	DefaultHeartbeatInterval = 20 * time.Second
)

// ErrNilCallback is returned by Subscribe when the callback is nil.
var ErrNilCallback = errors.New("realtime: callback must not be nil")

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// Options configures a Realtime client.
type Options struct {
	// Endpoint is the realtime base URL, e.g. wss://cloud.appwrite.io/v1.
	Endpoint string `validate:"required,ws_url"`

	// Project is sent as the project query parameter.
	Project string `validate:"required"`

	// Platform, when set, is sent as Origin: appwrite-<GOOS>://<Platform>.
	Platform string

	// Session returns the current session secret. When it returns a non-empty
	// value and the server reports no user on connect, an authentication
	// frame is sent.
	Session func() string

	// Header is added to every dial.
	Header http.Header

	ConnectDebounce   time.Duration `validate:"gte=0"`
	HeartbeatInterval time.Duration `validate:"gte=0"`

	// Transport defaults to a WebSocketTransport.
	Transport Transport

	// Scheduler runs subscriber callbacks. Defaults to one goroutine per
	// callback, which Close waits for.
	Scheduler Scheduler

	// Backoff overrides the reconnect delay tiers.
	Backoff func(attempts int) time.Duration

	// OnError receives terminal errors such as *PolicyViolationError.
	// It runs on the Scheduler.
	OnError func(error)
}

// Realtime multiplexes subscriptions over one socket.
//
// The socket's channel set is always the union of the live subscriptions'
// channels. Registry changes are debounced, then the socket is opened,
// replaced or closed to match. Unexpected closes reconnect with Backoff
// until the registry empties, Close is called, or the server rejects the
// connection with a policy violation.
type Realtime struct {
	opts      Options
	transport Transport
	scheduler Scheduler
	own       *goroutineScheduler
	backoff   func(int) time.Duration
	debounce  time.Duration
	interval  time.Duration
	log       zerolog.Logger

	malformedLog rate.Sometimes

	mu             sync.Mutex
	registry       *channelRegistry
	table          *subscriptionTable
	state          State
	current        *connection
	attempts       int
	connectTimer   *time.Timer
	reconnectTimer *time.Timer
	fatal          error
	closed         bool

	wg sync.WaitGroup
}

// New validates opts and returns an idle client. Nothing is dialed until
// the first Subscribe.
func New(opts Options) (*Realtime, error) {
	opts.Endpoint = strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if verr := validation.ValidateStruct(&opts); verr != nil {
		return nil, fmt.Errorf("realtime: invalid options: %w", verr)
	}

	r := &Realtime{
		opts:         opts,
		transport:    opts.Transport,
		scheduler:    opts.Scheduler,
		backoff:      opts.Backoff,
		debounce:     opts.ConnectDebounce,
		interval:     opts.HeartbeatInterval,
		log:          logging.WithComponent("realtime"),
		malformedLog: rate.Sometimes{First: 3, Interval: 10 * time.Second},
		registry:     newChannelRegistry(),
	}
	r.table = newSubscriptionTable(r.registry)

	if r.transport == nil {
		r.transport = &WebSocketTransport{EnableCompression: true}
	}
	if r.scheduler == nil {
		r.own = &goroutineScheduler{}
		r.scheduler = r.own
	}
	if r.backoff == nil {
		r.backoff = Backoff
	}
	if r.debounce == 0 {
		r.debounce = DefaultConnectDebounce
	}
	if r.interval == 0 {
		r.interval = DefaultHeartbeatInterval
	}

	return r, nil
}

// Subscribe registers cb for events on any of channels and returns a
// function that removes the registration. Invalid input is rejected before
// any state changes.
func (r *Realtime) Subscribe(channels []string, cb func(Event)) (Unsubscribe, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	for _, c := range channels {
		if strings.TrimSpace(c) == "" {
			return nil, ErrEmptyChannel
		}
	}
	if cb == nil {
		return nil, ErrNilCallback
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	id := r.table.add(channels, cb)
	r.updateGaugesLocked()
	r.requestConnectLocked()
	r.mu.Unlock()

	r.log.Debug().Uint64("subscription", id).Strs("channels", channels).Msg("Subscribed")

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(id) })
	}, nil
}

// SubscribeChannel is Subscribe for a single channel.
func (r *Realtime) SubscribeChannel(channel string, cb func(Event)) (Unsubscribe, error) {
	return r.Subscribe([]string{channel}, cb)
}

func (r *Realtime) unsubscribe(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.table.remove(id) {
		return
	}
	r.updateGaugesLocked()
	if !r.closed {
		r.requestConnectLocked()
	}
	r.log.Debug().Uint64("subscription", id).Msg("Unsubscribed")
}

// Close tears down the socket, cancels pending timers and waits for the
// connection goroutines and, with the default scheduler, for running
// callbacks. Subscriptions are kept but never delivered again. Close must
// not be called from a subscriber callback.
func (r *Realtime) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.stopTimersLocked()
	if c := r.current; c != nil {
		r.closeConnLocked(c)
		r.current = nil
	}
	r.state = StateClosed
	metrics.SetConnected(false)
	r.mu.Unlock()

	r.wg.Wait()
	if r.own != nil {
		r.own.Wait()
	}
	r.log.Debug().Msg("Realtime client closed")
	return nil
}

// State reports the connection state.
func (r *Realtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Channels returns the registered channels, sorted.
func (r *Realtime) Channels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.snapshot()
}

// Err returns the terminal error that stopped reconnecting, if any.
// It is cleared when a socket next opens.
func (r *Realtime) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fatal
}

func (r *Realtime) updateGaugesLocked() {
	metrics.UpdateRegistryGauges(r.table.len(), r.registry.len())
}

// schedule hands task to the scheduler with panic isolation.
func (r *Realtime) schedule(task func()) {
	r.scheduler.Schedule(func() {
		defer func() {
			if p := recover(); p != nil {
				metrics.RecordCallbackPanic()
				r.log.Error().Interface("panic", p).Msg("Realtime subscriber panicked")
			}
		}()
		task()
	})
}
