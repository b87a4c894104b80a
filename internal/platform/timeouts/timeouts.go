// Package timeouts defines shared timeout constants used across binaries.
package timeouts

import "time"

// AuthRequest caps a single call to the remote Auth API.
const AuthRequest = 10 * time.Second

// TokenExchange caps the OAuth authorization-code exchange with Google.
const TokenExchange = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StoreOpen caps opening and migrating the local token store.
const StoreOpen = 5 * time.Second
