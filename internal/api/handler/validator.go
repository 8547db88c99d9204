package handler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxUsernameRunes = 64

// RegisterValidators 在 gin 的校验器上注册自定义规则，启动时调用一次
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("username", validUsername)
}

// validUsername 非空、首尾无空白、无控制字符
func validUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || s != strings.TrimSpace(s) || utf8.RuneCountInString(s) > maxUsernameRunes {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
