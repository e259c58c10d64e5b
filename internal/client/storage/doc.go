// Package storage is the durable key/value store backing the session record
// (the "local storage" of the client). Values survive process restarts and
// live in a single SQLite table managed by embedded goose migrations.
//
// Only the session store writes the token, user and refresh keys; every other
// component reads through the Reader interface.
package storage
