package utils

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations 注册自定义校验规则
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// movieyear 合法的电影年份（1888 年为最早的电影年份）
		v.RegisterValidation("movieyear", func(fl validator.FieldLevel) bool {
			year := fl.Field().Int()
			if year == 0 {
				return true // 可选字段
			}
			return year >= 1888 && year <= int64(time.Now().Year()+5)
		})
	}
}
