package handlers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterCustomValidators adds the request tags used by the DTOs to gin's
// validator engine. It is safe to call more than once.
func RegisterCustomValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("notblank", notBlank); err != nil {
			return
		}
		err = v.RegisterValidation("mfrs_logic", mfrsLogicType)
	})
	return err
}

// notBlank rejects strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func mfrsLogicType(fl validator.FieldLevel) bool {
	return domain.LogicType(fl.Field().String()).IsValid()
}
