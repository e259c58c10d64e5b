package session

import "errors"

// ErrLoginFailed is returned for every unsuccessful login: bad credentials,
// server errors, network failures and local persistence failures alike. The
// cause is wrapped for logging but callers should not branch on it.
var ErrLoginFailed = errors.New("login failed")

// User-visible notices.
const (
	MsgSessionExpired = "Your session has expired. Please log in again."
	MsgLoginFailed    = "Login failed. Check your username and password."
)
