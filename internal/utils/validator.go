package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the shared validator over a form DTO and flattens the
// first failure into a plain message suitable for a flash. The service layer
// still owns the ordered, user-facing precondition messages; this only rejects
// bodies that are structurally unusable.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fe.Field())
		default:
			return fmt.Errorf("%s is invalid", fe.Field())
		}
	}
	return err
}
