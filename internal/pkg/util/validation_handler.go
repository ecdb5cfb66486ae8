package util

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct 校验结构体，只返回第一个失败字段
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			return fmt.Errorf("field [%s] failed rule [%s]", firstError.Field(), firstError.Tag())
		}
		return err
	}
	return nil
}
