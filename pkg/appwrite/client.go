// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

// Package appwrite holds the client configuration shared by Appwrite services
// and owns the client's single realtime connection.
package appwrite

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/validation"
	"github.com/appwrite/sdk-for-react-native-sub000/pkg/realtime"
)

// DefaultEndpoint is the Appwrite Cloud API endpoint.
const DefaultEndpoint = "https://cloud.appwrite.io/v1"

// ErrNoJWT is returned by JWTExpiresAt when no JWT is set.
var ErrNoJWT = errors.New("appwrite: no JWT set")

// Client carries project, endpoint and credentials. Setters return the
// client for chaining and are safe for concurrent use.
type Client struct {
	mu               sync.RWMutex
	endpoint         string
	endpointRealtime string
	project          string
	session          string
	jwt              string
	platform         string
	locale           string
	selfSigned       bool
	realtimeOpts     []func(*realtime.Options)

	rtMu sync.Mutex
	rt   *realtime.Realtime
}

// NewClient returns a client pointed at DefaultEndpoint.
func NewClient() *Client {
	return &Client{endpoint: DefaultEndpoint}
}

// SetEndpoint sets the REST endpoint. Unless SetEndpointRealtime is used,
// the realtime endpoint follows it with https→wss and http→ws.
func (c *Client) SetEndpoint(endpoint string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return c
}

// SetEndpointRealtime overrides the derived realtime endpoint.
func (c *Client) SetEndpointRealtime(endpoint string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpointRealtime = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return c
}

// SetProject sets the project ID.
func (c *Client) SetProject(project string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.project = project
	return c
}

// SetSession sets the session secret used to authenticate realtime sockets.
// It is read on every connect, so it may change after Realtime is created.
func (c *Client) SetSession(session string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	return c
}

// SetJWT sets the JWT used for REST calls.
func (c *Client) SetJWT(token string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jwt = token
	return c
}

// SetPlatform sets the platform identifier sent in the realtime Origin header.
func (c *Client) SetPlatform(platform string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.platform = platform
	return c
}

// SetLocale sets the locale for REST calls.
func (c *Client) SetLocale(locale string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locale = locale
	return c
}

// SetSelfSigned records whether self-signed certificates are acceptable.
// It is stored for REST callers; the realtime dialer does not consult it.
func (c *Client) SetSelfSigned(selfSigned bool) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selfSigned = selfSigned
	return c
}

// SetRealtimeOptions registers a hook applied to the realtime options before
// the realtime client is created. Hooks added after Realtime has been called
// have no effect.
func (c *Client) SetRealtimeOptions(fn func(*realtime.Options)) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.realtimeOpts = append(c.realtimeOpts, fn)
	return c
}

// Endpoint returns the REST endpoint.
func (c *Client) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoint
}

// EndpointRealtime returns the realtime endpoint, derived from the REST
// endpoint unless set explicitly.
func (c *Client) EndpointRealtime() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpointRealtimeLocked()
}

func (c *Client) endpointRealtimeLocked() string {
	if c.endpointRealtime != "" {
		return c.endpointRealtime
	}
	return RealtimeEndpointFor(c.endpoint)
}

// Project returns the project ID.
func (c *Client) Project() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.project
}

// Session returns the session secret.
func (c *Client) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Locale returns the configured locale.
func (c *Client) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

// SelfSigned reports whether self-signed certificates were allowed.
func (c *Client) SelfSigned() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selfSigned
}

// JWTExpiresAt returns the exp claim of the configured JWT. The signature
// is not verified; the server does that.
func (c *Client) JWTExpiresAt() (time.Time, error) {
	c.mu.RLock()
	token := c.jwt
	c.mu.RUnlock()

	if token == "" {
		return time.Time{}, ErrNoJWT
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("appwrite: parse JWT: %w", err)
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("appwrite: read JWT expiry: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// Realtime returns the client's realtime connection manager, creating it on
// first successful use. Every later call returns the same instance, so all
// subscriptions made through one Client share one socket. Configuration
// errors are not cached.
func (c *Client) Realtime() (*realtime.Realtime, error) {
	c.rtMu.Lock()
	defer c.rtMu.Unlock()

	if c.rt != nil {
		return c.rt, nil
	}
	rt, err := c.newRealtime()
	if err != nil {
		return nil, err
	}
	c.rt = rt
	return rt, nil
}

// Subscribe is shorthand for Realtime().Subscribe.
func (c *Client) Subscribe(channels []string, cb func(realtime.Event)) (realtime.Unsubscribe, error) {
	rt, err := c.Realtime()
	if err != nil {
		return nil, err
	}
	return rt.Subscribe(channels, cb)
}

// Close shuts down the realtime connection if one was created.
func (c *Client) Close() error {
	c.rtMu.Lock()
	rt := c.rt
	c.rtMu.Unlock()

	if rt == nil {
		return nil
	}
	return rt.Close()
}

type endpointSettings struct {
	Endpoint         string `validate:"required,http_url"`
	EndpointRealtime string `validate:"required,ws_url"`
	Project          string `validate:"required"`
}

func (c *Client) newRealtime() (*realtime.Realtime, error) {
	c.mu.RLock()
	settings := endpointSettings{
		Endpoint:         c.endpoint,
		EndpointRealtime: c.endpointRealtimeLocked(),
		Project:          c.project,
	}
	opts := realtime.Options{
		Endpoint: settings.EndpointRealtime,
		Project:  c.project,
		Platform: c.platform,
		Session:  c.Session,
	}
	hooks := append([]func(*realtime.Options){}, c.realtimeOpts...)
	c.mu.RUnlock()

	if verr := validation.ValidateStruct(&settings); verr != nil {
		return nil, fmt.Errorf("appwrite: invalid client configuration: %w", verr)
	}

	for _, fn := range hooks {
		fn(&opts)
	}
	return realtime.New(opts)
}

// RealtimeEndpointFor maps an http(s) endpoint to its ws(s) counterpart.
// Other schemes are returned unchanged.
func RealtimeEndpointFor(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	default:
		return endpoint
	}
}
