package auth

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/skillxp/core"
)

func TestNewAccount_Validate(t *testing.T) {
	translator := core.NewTranslator()
	validate := NewValidator(translator)

	type signupForm struct {
		Role Role `json:"role" validate:"signuprole"`
	}

	tests := []struct {
		name    string
		data    interface{}
		wantErr map[string]string
	}{
		{name: "valid", data: &NewAccount{Email: "a@x.com", Role: RoleAdmin}},
		{name: "default role", data: &NewAccount{Email: "a@x.com"}},
		{name: "no email", data: &NewAccount{Email: " "}, wantErr: map[string]string{"email": "this field is required"}},
		{name: "bad role", data: &NewAccount{Email: "a@x.com", Role: Role(42)}, wantErr: map[string]string{"role": "invalid role"}},
		{name: "signup role", data: &signupForm{Role: RoleParent}},
		{name: "signup default role", data: &signupForm{}},
		{name: "signup admin role", data: &signupForm{Role: RoleSchoolAdmin}, wantErr: map[string]string{"role": "this role cannot be picked at signup"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if na, ok := tt.data.(*NewAccount); ok {
				err = na.Validate(validate)
			} else {
				err = validate.Struct(tt.data)
			}
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.wantErr, core.TranslateErrors(vErrs, translator))
		})
	}
}
