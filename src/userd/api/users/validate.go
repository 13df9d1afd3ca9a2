package users

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/userd/users"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// fieldMessage renders one failed rule for clients
func fieldMessage(field, tag string) string {
	switch tag {
	case "required", "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "email":
		return fmt.Sprintf("%s must be a well-formed email address", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

func validationFields(err error) []errors.ValidationError {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return []errors.ValidationError{errors.NewValidationField("", err.Error())}
	}

	fields := make([]errors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errors.NewValidationField(fe.Field(), fieldMessage(fe.Field(), fe.Tag())))
	}
	return fields
}

// validateCreate checks a create request and converts it to core input
func validateCreate(req CreateUserRequest) (users.CreateInput, []errors.ValidationError) {
	if err := validate.Struct(req); err != nil {
		return users.CreateInput{}, validationFields(err)
	}
	return users.CreateInput{Name: req.Name, Email: req.Email, Phone: req.Phone}, nil
}

// validateUpdate checks only the fields present in the request
func validateUpdate(req UpdateUserRequest) (users.UpdateInput, []errors.ValidationError) {
	var fields []errors.ValidationError

	check := func(name string, value *string, tag string) {
		if value == nil {
			return
		}
		if err := validate.Var(*value, tag); err != nil {
			var verrs validator.ValidationErrors
			if stderrors.As(err, &verrs) && len(verrs) > 0 {
				fields = append(fields, errors.NewValidationField(name, fieldMessage(name, verrs[0].Tag())))
				return
			}
			fields = append(fields, errors.NewValidationField(name, err.Error()))
		}
	}

	check("name", req.Name, "notblank")
	check("email", req.Email, "notblank,email")
	check("phone", req.Phone, "notblank")

	if len(fields) > 0 {
		return users.UpdateInput{}, fields
	}

	return users.UpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Active: req.Active,
	}, nil
}
