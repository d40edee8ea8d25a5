// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import "sort"

// channelRegistry is the set of channels the socket must carry.
// A channel is present exactly while at least one live subscription lists it.
// Not safe for concurrent use; Realtime serializes access.
type channelRegistry struct {
	channels map[string]struct{}
}

func newChannelRegistry() *channelRegistry {
	return &channelRegistry{channels: make(map[string]struct{})}
}

func (r *channelRegistry) add(channels []string) {
	for _, c := range channels {
		r.channels[c] = struct{}{}
	}
}

func (r *channelRegistry) remove(channel string) {
	delete(r.channels, channel)
}

func (r *channelRegistry) len() int {
	return len(r.channels)
}

// containsAny reports whether any of channels is registered.
func (r *channelRegistry) containsAny(channels []string) bool {
	for _, c := range channels {
		if _, ok := r.channels[c]; ok {
			return true
		}
	}
	return false
}

// snapshot returns the registered channels in sorted order so the derived
// URL does not depend on subscription order.
func (r *channelRegistry) snapshot() []string {
	out := make([]string, 0, len(r.channels))
	for c := range r.channels {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// subscription is one live Subscribe call.
type subscription struct {
	id       uint64
	channels []string
	callback func(Event)
}

// matches reports whether the subscription lists any of channels.
func (s *subscription) matches(channels []string) bool {
	for _, want := range s.channels {
		for _, got := range channels {
			if want == got {
				return true
			}
		}
	}
	return false
}

// subscriptionTable maps handles to subscriptions and keeps the channel
// registry in step with them.
type subscriptionTable struct {
	nextID   uint64
	subs     map[uint64]*subscription
	registry *channelRegistry
}

func newSubscriptionTable(registry *channelRegistry) *subscriptionTable {
	return &subscriptionTable{
		subs:     make(map[uint64]*subscription),
		registry: registry,
	}
}

// add stores a subscription under a fresh handle. Handles are never reused.
// Duplicate channels in one call collapse to one.
func (t *subscriptionTable) add(channels []string, cb func(Event)) uint64 {
	t.nextID++
	id := t.nextID

	t.subs[id] = &subscription{
		id:       id,
		channels: dedupe(channels),
		callback: cb,
	}
	t.registry.add(channels)
	return id
}

// remove deletes the subscription and releases every channel no remaining
// subscription lists. Unknown handles are ignored; it reports whether one
// was removed.
func (t *subscriptionTable) remove(id uint64) bool {
	sub, ok := t.subs[id]
	if !ok {
		return false
	}
	delete(t.subs, id)

	for _, c := range sub.channels {
		if !t.referenced(c) {
			t.registry.remove(c)
		}
	}
	return true
}

func (t *subscriptionTable) referenced(channel string) bool {
	for _, sub := range t.subs {
		for _, c := range sub.channels {
			if c == channel {
				return true
			}
		}
	}
	return false
}

// matching returns the subscriptions whose channels intersect channels.
func (t *subscriptionTable) matching(channels []string) []*subscription {
	var out []*subscription
	for _, sub := range t.subs {
		if sub.matches(channels) {
			out = append(out, sub)
		}
	}
	return out
}

func (t *subscriptionTable) len() int {
	return len(t.subs)
}

func dedupe(channels []string) []string {
	seen := make(map[string]struct{}, len(channels))
	out := make([]string, 0, len(channels))
	for _, c := range channels {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
