package main

import (
	"context"
	"fmt"

	"github.com/trezcool/skillxp/core/auth"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	store := auth.NewStore(cli.kv)

	acc, err := store.ReadAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acc == nil {
		return auth.ErrAccountNotFound
	}
	if acc.Password, err = cli.opts.Passwords.Hash(pwd); err != nil {
		return err
	}
	if err = store.WriteAccountByEmail(ctx, acc.Email, *acc); err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "password of %s updated\n", acc.Email)
	return nil
}
