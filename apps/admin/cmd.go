package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/skillxp/core"
	"github.com/trezcool/skillxp/core/auth"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	kv       core.KVStore
	db       *sqlx.DB // nil unless the kv backend is a SQL database
	opts     auth.Options
	validate *validator.Validate
	logger   core.Logger
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL [-role ROLE] [-first NAME] [-last NAME] - create an account of any role")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset an account's password")
	fmt.Fprintln(cli.out, "  whois -email EMAIL - print an account")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose migration command (sql kv backends only)")
}

func (cli *commandLine) run(args []string) error {
	if cli.out == nil {
		cli.out = os.Stdout
	}
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The account's email. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", "", "One of STUDENT, TEACHER, PARENT, ADMIN, SCHOOL_ADMIN. Defaults to STUDENT.")
	addUserFirst := addUserCmd.String("first", "", "First name.")
	addUserLast := addUserCmd.String("last", "", "Last name.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The account's email. The password will be prompted next.")

	whoisCmd := flag.NewFlagSet("whois", flag.ContinueOnError)
	whoisEmail := whoisCmd.String("email", "", "The account's email.")

	for _, fs := range []*flag.FlagSet{addUserCmd, resetPasswordCmd, whoisCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		role, err := auth.ParseRole(*addUserRole)
		if err != nil {
			return err
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(auth.NewAccount{
			Email:     *addUserEmail,
			Password:  pwd,
			FirstName: *addUserFirst,
			LastName:  *addUserLast,
			Role:      role,
		})

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "whois":
		if err := whoisCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *whoisEmail == "" {
			whoisCmd.Usage()
			return errHelp
		}
		return cli.whois(*whoisEmail)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	return string(pwd), err
}
