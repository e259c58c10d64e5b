package cli

// Info, Error, DismissLoading and NavigateToLogin make App the session's
// Notifier and Navigator.

func (a *App) Info(msg string) {
	a.printf("* %s\n", msg)
}

func (a *App) Error(msg string) {
	a.printf("! %s\n", msg)
}

// DismissLoading cancels the pending "Loading ..." line, if there is one.
func (a *App) DismissLoading() {
	a.mu.Lock()
	what := a.loading
	a.loading = ""
	a.mu.Unlock()

	if what != "" {
		a.printf("Loading %s cancelled.\n", what)
	}
}

// NavigateToLogin asks the REPL to show the login prompt before the next
// command. Repeated requests collapse into one.
func (a *App) NavigateToLogin() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loginWanted = true
}

func (a *App) takeLoginRequest() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	wanted := a.loginWanted
	a.loginWanted = false
	return wanted
}

func (a *App) startLoading(what string) {
	a.mu.Lock()
	a.loading = what
	a.mu.Unlock()
	a.printf("Loading %s...\n", what)
}

func (a *App) stopLoading() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = ""
}

func (a *App) loadingLabel() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}
