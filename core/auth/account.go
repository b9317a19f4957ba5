package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/skillxp/core"
)

type (
	// Account is a registered person, stored under `account:<email>`.
	Account struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      Role   `json:"role"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	// Session is the snapshot of an Account held in the current-session slot. It never carries the password.
	Session struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Role      Role   `json:"role"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	// NewAccount contains information needed to sign up.
	NewAccount struct {
		Email     string `json:"email" validate:"required,max=254"`
		Password  string `json:"password"`
		FirstName string `json:"first_name" validate:"max=150"`
		LastName  string `json:"last_name" validate:"max=150"`
		Role      Role   `json:"role" validate:"role"`
	}
)

var _ core.Identity = Session{}

func newAccount(na NewAccount, pwd string) Account {
	return Account{
		ID:        uuid.NewString(),
		Email:     na.Email,
		Password:  pwd,
		Role:      na.Role.OrDefault(),
		FirstName: na.FirstName,
		LastName:  na.LastName,
	}
}

func (a Account) Session() Session {
	return Session{
		ID:        a.ID,
		Email:     a.Email,
		Role:      a.Role,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

// FullName returns the first name plus the last name, with a space in between.
func (s Session) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// ShortName returns the first name, or the email when there is none.
func (s Session) ShortName() string {
	if s.FirstName != "" {
		return s.FirstName
	}
	return s.Email
}

func (s Session) LogIdentity() (id, name, email string) {
	return s.ID, s.FullName(), s.Email
}

// Clean normalizes na in-place; emails are trimmed & lower-cased.
func (na *NewAccount) Clean() {
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.FirstName = core.CleanString(na.FirstName)
	na.LastName = core.CleanString(na.LastName)
}

func (na *NewAccount) Validate(validate *validator.Validate) error {
	na.Clean()
	return validate.Struct(na)
}
