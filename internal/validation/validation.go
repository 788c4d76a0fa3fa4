// Package validation registers the custom binding tags used by request DTOs.
package validation

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/vidora/vidora-backend/internal/domain"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)

// Register adds the username and reaction_kind tags to gin's validator
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

// RegisterOn adds the custom tags to v
func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("username", validUsername); err != nil {
		return err
	}
	return v.RegisterValidation("reaction_kind", validReactionKind)
}

func validUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func validReactionKind(fl validator.FieldLevel) bool {
	return domain.ReactionKind(fl.Field().String()).IsValid()
}
