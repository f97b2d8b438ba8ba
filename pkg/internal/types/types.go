// Package types 定义 HTTP 请求与响应结构，校验使用 rule 标签.
package types

import "github.com/yeisme/filevault/pkg/rule"

// ErrorResponse 统一错误响应.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse 简单信息响应.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResponse 请求体校验失败.
type ValidationResponse struct {
	Error  string       `json:"error"`
	Fields []rule.FieldError `json:"fields,omitempty"`
}

// IDParam 路径中的数字 ID.
type IDParam struct {
	ID uint `uri:"id" rule:"required,gt=0"`
}
