package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks the struct's validate tags and returns the first failure.
func Validate(v interface{}) error {
	return validate.Struct(v)
}
