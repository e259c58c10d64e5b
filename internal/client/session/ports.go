package session

import (
	"context"

	"github.com/dmitrijs2005/furnistore/internal/client/api"
)

// Authenticator performs the credential exchange. *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
}

// Notifier shows messages to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
	// DismissLoading removes any in-flight "loading" indicator.
	DismissLoading()
}

// Navigator moves the user to the login entry point.
type Navigator interface {
	NavigateToLogin()
}

type nopNotifier struct{}

func (nopNotifier) Info(string)     {}
func (nopNotifier) Error(string)    {}
func (nopNotifier) DismissLoading() {}

type nopNavigator struct{}

func (nopNavigator) NavigateToLogin() {}
