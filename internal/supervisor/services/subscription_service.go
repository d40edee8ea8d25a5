// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/pkg/realtime"
)

// Subscriber registers realtime callbacks. *appwrite.Client and
// *realtime.Realtime both satisfy it.
type Subscriber interface {
	Subscribe(channels []string, cb func(realtime.Event)) (realtime.Unsubscribe, error)
}

// SubscriptionService holds one realtime subscription for as long as it is
// served. The realtime client reconnects on its own, so Serve only returns
// on shutdown, on a subscribe error, or when ReportError delivers a policy
// violation. The violation terminates the whole tree since reconnecting
// would be rejected again.
type SubscriptionService struct {
	name       string
	subscriber Subscriber
	channels   []string
	handler    func(realtime.Event)
	fatal      chan error
}

// NewSubscriptionService creates a service that delivers events on channels to handler.
func NewSubscriptionService(name string, subscriber Subscriber, channels []string, handler func(realtime.Event)) *SubscriptionService {
	return &SubscriptionService{
		name:       name,
		subscriber: subscriber,
		channels:   append([]string(nil), channels...),
		handler:    handler,
		fatal:      make(chan error, 1),
	}
}

// ReportError is meant for realtime.Options.OnError. Policy violations stop
// the service; other errors are ignored because the client retries them.
func (s *SubscriptionService) ReportError(err error) {
	if !realtime.IsPolicyViolation(err) {
		return
	}
	select {
	case s.fatal <- err:
	default:
	}
}

// Serve implements suture.Service.
func (s *SubscriptionService) Serve(ctx context.Context) error {
	log := logging.WithComponent(s.name)

	unsubscribe, err := s.subscriber.Subscribe(s.channels, s.handler)
	if err != nil {
		return fmt.Errorf("%s: subscribe: %w", s.name, err)
	}
	defer unsubscribe()
	log.Info().Strs("channels", s.channels).Msg("Subscribed")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-s.fatal:
		log.Error().Err(err).Msg("Realtime connection rejected, stopping")
		return fmt.Errorf("%w: %w", suture.ErrTerminateSupervisorTree, err)
	}
}

// String implements fmt.Stringer for suture logs.
func (s *SubscriptionService) String() string {
	return s.name
}
