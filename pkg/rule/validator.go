// Package rule 提供结构体和字段验证功能的封装，基于 go-playground/validator 实现.
// 该包复用 gin 的 validator 引擎并将标签名切换为 rule，因此 c.ShouldBind 会按 rule 标签校验请求体.
package rule

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// TagName 结构体校验标签名.
const TagName = "rule"

var (
	inst *validator.Validate
	once sync.Once
)

// initValidator 尝试复用 gin 的 validator 引擎；若不可用则新建.
func initValidator() {
	if engine := binding.Validator.Engine(); engine != nil {
		if v, ok := engine.(*validator.Validate); ok {
			inst = v
		}
	}

	if inst == nil {
		inst = validator.New()
	}

	inst.SetTagName(TagName)
	inst.RegisterTagNameFunc(fieldName)
	// notblank: 去除首尾空白后不能为空
	_ = inst.RegisterValidation("notblank", validators.NotBlank)
}

// fieldName 优先使用 json/form 标签作为错误中的字段名.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return fld.Name
}

// lazyInit 初始化全局 validator（幂等）.
func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate，若未初始化则先初始化.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// RegisterValidation 代理 RegisterValidation，确保已初始化.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	lazyInit()

	return inst.RegisterValidation(tag, fn, opts...)
}

// ValidateStruct 对结构体执行完整校验，返回原始 error（可用 Messages 解析）.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar 按规则对单个变量校验，例如: ValidateVar("abc", "required,email").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// RegisterAlias 包装 RegisterAlias，便于注册别名规则.
func RegisterAlias(alias, rules string) {
	lazyInit()

	inst.RegisterAlias(alias, rules)
}

// FieldError 单个字段的可读校验错误.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Messages 将校验错误按 "字段.标签" 在 catalog 中查找可读信息，找不到时回退到默认描述.
// err 不是校验错误时返回 nil.
func Messages(err error, catalog map[string]string) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))

	for _, fe := range verrs {
		msg, ok := catalog[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}

		out = append(out, FieldError{Field: fe.Field(), Msg: msg})
	}

	return out
}

func defaultMessage(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Field() + " failed on " + fe.Tag() + "=" + fe.Param()
	}

	return fe.Field() + " failed on " + fe.Tag()
}
