package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/furnistore/internal/client/guard"
	"github.com/dmitrijs2005/furnistore/internal/client/models"
	"github.com/dmitrijs2005/furnistore/internal/client/token"
	"github.com/dmitrijs2005/furnistore/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// open makes a guarded view the current page. The guard stays subscribed
// until another page opens, so a session lost while the page is current
// still redirects to login.
func (a *App) open(req guard.Requirement, view func() error) error {
	g := guard.New(a.rt.Session, req, a)

	a.mu.Lock()
	prev := a.page
	a.page = g
	a.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	err := g.Render(view)
	if errors.Is(err, guard.ErrRedirected) {
		a.printf("Access denied: %s access required.\n", req)
	}
	return err
}

// leavePage drops the current guarded page, if any.
func (a *App) leavePage() {
	a.mu.Lock()
	prev := a.page
	a.page = nil
	a.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.in, "Username", a.lastUser, a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.rt.Session.Login(ctx, username, string(password)); err != nil {
		return err
	}

	snap := a.rt.Session.Snapshot()
	a.lastUser = snap.User.Username
	a.printf("Welcome, %s (%s).\n", snap.User.Username, snap.User.Role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.leavePage()
	a.rt.Session.Logout(ctx, false)
	a.printf("Logged out.\n")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	return a.open(guard.RequireAuthenticated, func() error {
		snap := a.rt.Session.Snapshot()
		u := snap.User
		a.printf("%s <%s> id=%d role=%s\n", u.Username, u.Email, u.ID, u.Role)
		if exp, ok := token.Expiry(a.rt.Session.Token()); ok {
			a.printf("Session expires at %s\n", exp.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	})
}

func (a *App) Products(ctx context.Context, args []string) error {
	a.leavePage()

	page := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return errUsage("products [page]")
		}
		page = n
	}

	a.startLoading("products")
	res, err := a.rt.API.ListProducts(ctx, page)
	a.stopLoading()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range res.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if res.Count > len(res.Results) {
		a.printf("Showing %d of %d.\n", len(res.Results), res.Count)
	}
	return nil
}

func (a *App) Product(ctx context.Context, args []string) error {
	a.leavePage()

	id, err := parseID(args, "product <id>")
	if err != nil {
		return err
	}

	p, err := a.rt.API.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	a.printf("#%d %s\nPrice: %s\nStock: %d\n", p.ID, p.Name, p.Price, p.Stock)
	if p.Description != "" {
		a.printf("%s\n", p.Description)
	}
	if p.Image != "" {
		a.printf("Image: %s\n", p.Image)
	}
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	a.leavePage()

	cats, err := a.rt.API.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		a.printf("No categories.\n")
		return nil
	}
	for _, c := range cats {
		a.printf("%d\t%s\n", c.ID, c.Name)
	}
	return nil
}

func (a *App) AddCategory(ctx context.Context, args []string) error {
	return a.open(guard.RequireStaff, func() error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return errUsage("addcategory <name>")
		}
		c, err := a.rt.API.CreateCategory(ctx, name)
		if err != nil {
			return err
		}
		a.printf("Created category %d %q.\n", c.ID, c.Name)
		return nil
	})
}

func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	return a.open(guard.RequireStaff, func() error {
		id, err := parseID(args, "delcategory <id>")
		if err != nil {
			return err
		}
		if err := a.rt.API.DeleteCategory(ctx, id); err != nil {
			return err
		}
		a.printf("Deleted category %d.\n", id)
		return nil
	})
}

func (a *App) Orders(ctx context.Context) error {
	return a.open(guard.RequireStaff, func() error {
		a.startLoading("orders")
		orders, err := a.rt.API.ListOrders(ctx)
		a.stopLoading()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSER\tSTATUS\tTOTAL\tCREATED")
		for _, o := range orders {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", o.ID, o.User, o.Status, o.Total, o.CreatedAt.Format("2006-01-02"))
		}
		return tw.Flush()
	})
}

func (a *App) SetStatus(ctx context.Context, args []string) error {
	return a.open(guard.RequireStaff, func() error {
		const usage = "setstatus <id> <pending|paid|shipped|delivered|cancelled>"
		if len(args) != 2 {
			return errUsage(usage)
		}
		id, err := parseID(args[:1], usage)
		if err != nil {
			return err
		}
		status := models.OrderStatus(strings.ToLower(args[1]))
		if !status.Valid() {
			return errUsage(usage)
		}

		o, err := a.rt.API.UpdateOrderStatus(ctx, id, status)
		if err != nil {
			return err
		}
		a.printf("Order %d is now %s.\n", o.ID, o.Status)
		return nil
	})
}

func (a *App) Users(ctx context.Context) error {
	return a.open(guard.RequireAdmin, func() error {
		a.startLoading("users")
		users, err := a.rt.API.ListUsers(ctx)
		a.stopLoading()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE")
		for _, u := range users {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
		}
		return tw.Flush()
	})
}

func (a *App) Upload(ctx context.Context, args []string) error {
	return a.open(guard.RequireStaff, func() error {
		const usage = "upload <product-id> <file>"
		if len(args) != 2 {
			return errUsage(usage)
		}
		id, err := parseID(args[:1], usage)
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer f.Close()

		p, err := a.rt.API.UploadProductImage(ctx, id, filepath.Base(args[1]), f)
		if err != nil {
			return err
		}
		a.printf("Uploaded image for product %d: %s\n", p.ID, p.Image)
		return nil
	})
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) < 1 {
		return 0, errUsage(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, errUsage(usage)
	}
	return id, nil
}
