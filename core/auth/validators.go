package auth

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/skillxp/core"
)

var (
	roleTag  = "role"
	roleText = "invalid role"

	signupRoleTag  = "signuprole"
	signupRoleText = "this role cannot be picked at signup"
)

// InitValidators registers the auth validation tags. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(signupRoleTag, signupRoleValidation)
	core.RegisterCustomTranslation(validate, translator, signupRoleTag, signupRoleText)
}

// NewValidator returns a validator with both core & auth tags registered.
func NewValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

// roleValidation accepts RoleUnspecified (defaulted later) & every known role.
func roleValidation(fl validator.FieldLevel) bool {
	r, ok := fl.Field().Interface().(Role)
	if !ok {
		return false
	}
	return r == RoleUnspecified || r.IsValid()
}

// signupRoleValidation only accepts roles offered on the public signup form.
func signupRoleValidation(fl validator.FieldLevel) bool {
	r, ok := fl.Field().Interface().(Role)
	if !ok {
		return false
	}
	return SignupRoles.Has(r.OrDefault())
}
