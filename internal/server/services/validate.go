package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/go-playground/validator/v10"
)

const (
	reasonBadResetToken = "Link de redefinição inválido ou expirado"
	reasonWrongPassword = "Senha atual incorreta"
)

type signUpInput struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	DisplayName string `json:"displayName" validate:"max=80"`
	Lab         string `json:"lab" validate:"max=80"`
}

type profileInput struct {
	DisplayName string `json:"displayName" validate:"required,min=3,max=80"`
	Lab         string `json:"lab" validate:"required,min=2,max=80"`
}

type changePasswordInput struct {
	Current  string `json:"currentPassword" validate:"required"`
	Password string `json:"newPassword" validate:"required,min=6,max=72"`
}

type resetRequestInput struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"newPassword" validate:"required,min=6,max=72"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check reports the first failing field as a *common.ValidationError.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	fe := fields[0]
	return common.NewValidationError(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório"
	case "email":
		return "Email inválido"
	case "min":
		return fmt.Sprintf("Mínimo de %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("Máximo de %s caracteres", fe.Param())
	}
	return "Valor inválido"
}
