package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// New returns a configured validator with the objectid rule registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterValidation("objectid", func(fl validatorv10.FieldLevel) bool {
		_, err := primitive.ObjectIDFromHex(fl.Field().String())
		return err == nil
	})

	return v
}
