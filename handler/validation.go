package handler

import (
	"fmt"
	"sync"

	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the contract_status and contract_role binding rules
// to gin's validator.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("contract_status", validStatus); err != nil {
			return
		}
		err = v.RegisterValidation("contract_role", validRole)
	})
	return err
}

func validStatus(fl validator.FieldLevel) bool {
	return model.Status(fl.Field().String()).Valid()
}

func validRole(fl validator.FieldLevel) bool {
	return model.Role(fl.Field().String()).Valid()
}
