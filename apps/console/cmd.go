package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/skillxp/core/auth"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp     = errors.New("help provided")
	errNotFound = errors.New("no such page")
)

// console drives an auth.Service the way the web front end does, from a terminal.
type console struct {
	svc            *auth.Service
	routes         auth.Routes
	validate       *validator.Validate
	restoreTimeout time.Duration
	out            io.Writer
}

func (c *console) printUsage() {
	fmt.Fprintln(c.out, "Usage:")
	fmt.Fprintln(c.out, "  signup -email EMAIL [-role STUDENT|TEACHER|PARENT] [-first NAME] [-last NAME] - create an account & sign in")
	fmt.Fprintln(c.out, "  login -email EMAIL - sign in")
	fmt.Fprintln(c.out, "  logout - sign out")
	fmt.Fprintln(c.out, "  whoami - print the current session")
	fmt.Fprintln(c.out, "  open PATH - navigate to a page")
	fmt.Fprintln(c.out, "  routes - list every page")
}

func (c *console) run(ctx context.Context, args []string) error {
	if c.out == nil {
		c.out = os.Stdout
	}
	if len(args) < 2 {
		c.printUsage()
		return errHelp
	}

	signupCmd := flag.NewFlagSet("signup", flag.ContinueOnError)
	signupEmail := signupCmd.String("email", "", "The account's email. The password will be prompted next.")
	signupRole := signupCmd.String("role", "", "One of STUDENT, TEACHER, PARENT. Defaults to STUDENT.")
	signupFirst := signupCmd.String("first", "", "First name.")
	signupLast := signupCmd.String("last", "", "Last name.")
	signupPwd := signupCmd.String("password", "", "Prompted when not given.")

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginEmail := loginCmd.String("email", "", "The account's email. The password will be prompted next.")
	loginPwd := loginCmd.String("password", "", "Prompted when not given.")

	signupCmd.SetOutput(c.out)
	loginCmd.SetOutput(c.out)

	switch args[1] {
	case "signup":
		if err := signupCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *signupEmail == "" {
			signupCmd.Usage()
			return errHelp
		}
		role, err := auth.ParseRole(*signupRole)
		if err != nil {
			return err
		}
		pwd, err := c.password(*signupPwd)
		if err != nil {
			return err
		}
		return c.signup(ctx, auth.NewAccount{
			Email:     *signupEmail,
			Password:  pwd,
			FirstName: *signupFirst,
			LastName:  *signupLast,
			Role:      role,
		})

	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := c.password(*loginPwd)
		if err != nil {
			return err
		}
		return c.login(ctx, *loginEmail, pwd)

	case "logout":
		return c.logout(ctx)

	case "whoami":
		return c.whoami(ctx)

	case "open":
		if len(args) < 3 {
			c.printUsage()
			return errHelp
		}
		return c.open(ctx, args[2])

	case "routes":
		c.listRoutes()
		return nil

	default:
		c.printUsage()
		return errHelp
	}
}

// password returns given, or prompts for it when empty.
func (c *console) password(given string) (string, error) {
	if given != "" {
		return given, nil
	}
	fmt.Fprint(c.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(c.out)
	return string(pwd), err
}

// waitReady restores the stored session, waiting at most restoreTimeout.
func (c *console) waitReady(ctx context.Context) {
	pending := c.svc.Restore(ctx)
	wctx, cancel := context.WithTimeout(ctx, c.restoreTimeout)
	defer cancel()
	_ = pending.Wait(wctx) // failed restores leave the service unauthenticated
}

func (c *console) listRoutes() {
	for _, r := range c.routes {
		var who string
		switch {
		case r.Requirement.Public:
			who = "everyone"
		case r.Requirement.Roles.IsEmpty():
			who = "any signed in account"
		default:
			names := make([]string, 0, len(r.Requirement.Roles))
			for _, role := range auth.AllRoles {
				if r.Requirement.Roles.Has(role) {
					names = append(names, role.String())
				}
			}
			who = strings.Join(names, ", ")
		}
		fmt.Fprintf(c.out, "%-26s %-24s %s\n", r.Pattern, r.Name, who)
	}
}
