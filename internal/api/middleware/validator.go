package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	timeframes = map[string]bool{"1D": true, "7D": true, "1M": true, "1Y": true, "all": true}
	windows    = map[string]bool{"1D": true, "7D": true, "30D": true}
)

// RegisterValidators 注册 timeframe/window 绑定校验
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("timeframe", func(fl validator.FieldLevel) bool {
		return timeframes[fl.Field().String()]
	}); err != nil {
		return err
	}
	return v.RegisterValidation("window", func(fl validator.FieldLevel) bool {
		return windows[fl.Field().String()]
	})
}
