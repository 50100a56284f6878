package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the validator instance
var validate = validator.New()

// ValidateStruct runs the `validate` tags of a request struct
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return err
	}
	return nil
}

// ValidationDetails flattens validator errors into a field -> rule map for error responses
func ValidationDetails(err error) map[string]interface{} {
	details := map[string]interface{}{}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		details["error"] = err.Error()
		return details
	}

	for _, fe := range validationErrors {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		details[fe.Field()] = rule
	}
	return details
}
