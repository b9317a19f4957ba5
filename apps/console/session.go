package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/core"
	"github.com/trezcool/skillxp/core/auth"
)

var errSignupRole = errors.New("this role cannot be picked at signup")

func (c *console) signup(ctx context.Context, na auth.NewAccount) error {
	if !auth.SignupRoles.Has(na.Role.OrDefault()) {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: errSignupRole.Error()})
	}
	if err := na.Validate(c.validate); err != nil {
		return err
	}

	sess, err := c.svc.Signup(ctx, na)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Signed up as %s (%s).\n", sess.ShortName(), sess.Role.Display())
	fmt.Fprintf(c.out, "-> %s\n", auth.AfterSignup)
	return nil
}

func (c *console) login(ctx context.Context, email, pwd string) error {
	sess, err := c.svc.Login(ctx, email, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Welcome back, %s.\n", sess.ShortName())
	fmt.Fprintf(c.out, "-> %s\n", auth.Destination(sess.Role))
	return nil
}

func (c *console) logout(ctx context.Context) error {
	if err := c.svc.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out.")
	fmt.Fprintf(c.out, "-> %s\n", auth.AfterLogout)
	return nil
}

func (c *console) whoami(ctx context.Context) error {
	c.waitReady(ctx)

	sess, ok := c.svc.Current()
	if !ok {
		fmt.Fprintln(c.out, c.svc.State())
		return nil
	}
	fmt.Fprintf(c.out, "%s: %s <%s> as %s\n", c.svc.State(), sess.FullName(), sess.Email, sess.Role.Display())
	return nil
}

// open navigates to path the way the front end router does: the route guard decides what is shown.
func (c *console) open(ctx context.Context, path string) error {
	route, params, ok := c.routes.Match(path)
	if !ok {
		fmt.Fprintf(c.out, "%s: %v\n", path, errNotFound)
		if suggestions := c.routes.Suggest(path, 3); len(suggestions) > 0 {
			fmt.Fprintln(c.out, "Did you mean:")
			for _, s := range suggestions {
				fmt.Fprintf(c.out, "  %s\n", s)
			}
		}
		return errNotFound
	}

	// public routes are not guarded
	decision := auth.Render
	if !route.Requirement.Public {
		c.waitReady(ctx)
		decision = c.svc.Check(route.Requirement)
	}
	switch decision {
	case auth.Loading:
		fmt.Fprintln(c.out, "Loading...")
	case auth.RedirectToLogin, auth.RedirectToUnauthorized:
		fmt.Fprintf(c.out, "-> %s\n", decision.Redirect())
	default:
		fmt.Fprintf(c.out, "[%s]", route.Name)
		for k, v := range params {
			fmt.Fprintf(c.out, " %s=%s", k, v)
		}
		fmt.Fprintln(c.out)
	}
	return nil
}
