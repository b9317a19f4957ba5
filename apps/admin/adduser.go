package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/core/auth"
)

// adminDevice is the session slot used while creating accounts, so that the console session is left alone.
const adminDevice = "admin-cli"

// addUser creates an account of any role. Unlike the public signup, admin & school admin roles are allowed.
func (cli *commandLine) addUser(na auth.NewAccount) error {
	ctx := context.Background()
	if err := na.Validate(cli.validate); err != nil {
		return err
	}

	svc := auth.NewService(auth.NewDeviceStore(cli.kv, adminDevice), cli.logger, cli.opts)
	sess, err := svc.Signup(ctx, na)
	if err != nil {
		return err
	}
	if err = svc.Logout(ctx); err != nil {
		return errors.Wrap(err, "releasing admin session")
	}

	fmt.Fprintf(cli.out, "created %s account %s for %s\n", sess.Role.Display(), sess.ID, sess.Email)
	return nil
}
