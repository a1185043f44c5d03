package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{2,49}$`)

// IsUsername 校验用户名格式：字母数字开头，允许下划线和连字符
func IsUsername(fl validator.FieldLevel) bool {
	return usernameRe.MatchString(fl.Field().String())
}
