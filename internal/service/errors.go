package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrValidation 输入校验失败
var ErrValidation = errors.New("validation failed")

func validationErr(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed on %s", ErrValidation, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
