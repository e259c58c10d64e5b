// Package cli is the interactive furnictl shell.
//
// The shell restores the saved session on start, then reads commands until
// exit. Catalogue commands work for anyone; back-office commands are guarded
// by role and send the user to the login prompt when the session is missing,
// expired or not privileged enough. A background watchdog closes an expired
// session even while the shell is idle; the login prompt appears before the
// next command.
package cli
