package main

import (
	"context"
	"encoding/json"

	"github.com/trezcool/skillxp/core/auth"
)

// whois prints the account registered under email, without its password.
func (cli *commandLine) whois(email string) error {
	acc, err := auth.NewStore(cli.kv).ReadAccountByEmail(context.Background(), email)
	if err != nil {
		return err
	}
	if acc == nil {
		return auth.ErrAccountNotFound
	}

	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(acc.Session())
}
