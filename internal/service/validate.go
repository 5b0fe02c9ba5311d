package service

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9]+(?:[-_/.][A-Za-z0-9]+)*$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance 进程内共享，validator 会缓存结构体解析结果
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		err := validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		if err != nil {
			panic(err)
		}
	})
	return validate
}
