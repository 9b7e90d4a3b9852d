// Package validator registers domain-specific binding rules on gin's
// validator engine so request structs can declare them in tags.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
)

// RegisterCustomValidations installs the domain tags. Call once at
// startup before the first request is bound.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("department", validDepartment); err != nil {
		return err
	}
	return v.RegisterValidation("admission_status", validAdmissionStatus)
}

func validDepartment(fl validator.FieldLevel) bool {
	return model.ValidDepartment(model.Department(fl.Field().String()))
}

func validAdmissionStatus(fl validator.FieldLevel) bool {
	switch model.AdmissionStatus(fl.Field().String()) {
	case model.AdmissionStatusAdmitted, model.AdmissionStatusDischarged:
		return true
	}
	return false
}
