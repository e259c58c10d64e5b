// Package common contains shared constants used across furnistore client
// components.
package common

// Durable storage keys. They mirror the in-memory session and are only
// written by the session store.
const (
	StorageKeyToken   = "token"
	StorageKeyUser    = "user"
	StorageKeyRefresh = "refresh"
)

// HTTP header names and values used on every API request.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderRequestID     = "X-Request-ID"

	ContentTypeJSON = "application/json"
)

// LoginPath is the navigation target used whenever a session is missing or
// has been force-closed.
const LoginPath = "/login"
