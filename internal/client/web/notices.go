package web

import (
	"sync"
)

const maxNotices = 20

// Notices is the console's session UI. Messages are kept until the login
// page shows them; redirects are counted for /session.
type Notices struct {
	mu        sync.Mutex
	messages  []string
	redirects int
}

func NewNotices() *Notices {
	return &Notices{}
}

func (n *Notices) Info(msg string)  { n.add(msg) }
func (n *Notices) Error(msg string) { n.add(msg) }

// DismissLoading is a no-op: console requests do not keep a loading state.
func (n *Notices) DismissLoading() {}

func (n *Notices) NavigateToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects++
}

func (n *Notices) add(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	if len(n.messages) > maxNotices {
		n.messages = n.messages[len(n.messages)-maxNotices:]
	}
}

// Drain returns pending messages and forgets them.
func (n *Notices) Drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.messages
	n.messages = nil
	return out
}

func (n *Notices) Redirects() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirects
}
