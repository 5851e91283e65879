package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/vladimirs1981/employee-info/services"
)

// RegisterValidators installs the company_email binding tag for domain
func RegisterValidators(domain string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("company_email", func(fl validator.FieldLevel) bool {
		return services.ValidCompanyEmail(fl.Field().String(), domain)
	})
}
