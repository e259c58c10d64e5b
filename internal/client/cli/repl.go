package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/furnistore/internal/client/api"
	"github.com/dmitrijs2005/furnistore/internal/client/guard"
	"github.com/dmitrijs2005/furnistore/internal/client/session"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	Snapshot() session.Snapshot
	takeLoginRequest() bool

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Products(ctx context.Context, args []string) error
	Product(ctx context.Context, args []string) error
	Categories(ctx context.Context) error
	AddCategory(ctx context.Context, args []string) error
	DeleteCategory(ctx context.Context, args []string) error
	Orders(ctx context.Context) error
	SetStatus(ctx context.Context, args []string) error
	Users(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
}

// runREPL reads one command per line from in and dispatches it. It returns
// on EOF, on exit/quit, or when ctx is done. A pending redirect to login is
// served before the next prompt.
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		if a.takeLoginRequest() {
			fmt.Fprintln(w, "Please log in.")
			report(w, a.Login(ctx))
		}

		fmt.Fprintf(w, "furni%s> ", prefixSpace(statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printHelp(w, a.Snapshot())
		case "login":
			report(w, a.Login(ctx))
		case "logout":
			report(w, a.Logout(ctx))
		case "whoami":
			report(w, a.Whoami(ctx))
		case "products":
			report(w, a.Products(ctx, args))
		case "product":
			report(w, a.Product(ctx, args))
		case "categories":
			report(w, a.Categories(ctx))
		case "addcategory":
			report(w, a.AddCategory(ctx, args))
		case "delcategory":
			report(w, a.DeleteCategory(ctx, args))
		case "orders":
			report(w, a.Orders(ctx))
		case "setstatus":
			report(w, a.SetStatus(ctx, args))
		case "users":
			report(w, a.Users(ctx))
		case "upload":
			report(w, a.Upload(ctx, args))
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

func printHelp(w io.Writer, snap session.Snapshot) {
	cmds := []string{"products [page]", "product <id>", "categories"}
	if snap.IsAuthenticated() {
		cmds = append(cmds, "whoami", "logout")
	} else {
		cmds = append(cmds, "login")
	}
	if snap.IsStaff() {
		cmds = append(cmds, "orders", "setstatus <id> <status>", "addcategory <name>",
			"delcategory <id>", "upload <product-id> <file>")
	}
	if snap.IsAdmin() {
		cmds = append(cmds, "users")
	}
	cmds = append(cmds, "exit")
	fmt.Fprintln(w, "Available commands:", strings.Join(cmds, ", "))
}

// errUsage carries a usage line back to the REPL.
type errUsage string

func (e errUsage) Error() string { return "usage: " + string(e) }

// report prints err for the user. Errors whose notice was already shown by
// the session or the guard are not repeated.
func report(w io.Writer, err error) {
	if err == nil {
		return
	}

	var apiErr *api.APIError
	var usage errUsage
	switch {
	case errors.Is(err, api.ErrUnauthorized),
		errors.Is(err, guard.ErrRedirected),
		errors.Is(err, session.ErrLoginFailed):
		return
	case errors.Is(err, guard.ErrWaiting):
		fmt.Fprintln(w, "Session is still loading, try again.")
	case errors.Is(err, api.ErrNetwork):
		fmt.Fprintln(w, "! Cannot reach the store API. Check your connection.")
	case errors.As(err, &usage):
		fmt.Fprintln(w, "Usage:", string(usage))
	case api.IsValidation(err) && errors.As(err, &apiErr):
		fmt.Fprintln(w, "!", apiErr.Message)
	case errors.As(err, &apiErr):
		fmt.Fprintf(w, "! The store API failed (%d): %s\n", apiErr.Status, apiErr.Message)
	default:
		fmt.Fprintln(w, "!", err.Error())
	}
}
