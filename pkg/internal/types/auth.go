package types

import (
	"time"

	"github.com/yeisme/filevault/pkg/internal/model"
)

// RegisterRequest 注册请求.
type RegisterRequest struct {
	Username        string `json:"username"         rule:"required,notblank,printascii,max=255"`
	Password        string `json:"password"         rule:"required,min=5,max=72"`
	ConfirmPassword string `json:"confirm_password" rule:"eqfield=Password"`
	Admin           bool   `json:"admin,omitempty"`
}

// RegisterMessages 注册请求的错误信息.
var RegisterMessages = map[string]string{
	"username.required":        "Username cannot be empty",
	"username.notblank":        "Username cannot be empty",
	"username.printascii":      "Username must contain valid ASCII characters.",
	"username.max":             "Username is too long.",
	"password.required":        "Password can not be empty.",
	"password.min":             "Password must be atleast 5 characters long.",
	"password.max":             "Password is too long.",
	"confirm_password.eqfield": "Passwords must match!",
}

// LoginRequest 登录请求.
type LoginRequest struct {
	Username string `json:"username" rule:"required"`
	Password string `json:"password" rule:"required"`
}

// LoginMessages 登录请求的错误信息.
var LoginMessages = map[string]string{
	"username.required": "Username cannot be empty",
	"password.required": "Password can not be empty.",
}

// UserResponse 用户信息.
type UserResponse struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// LoginResponse 登录成功返回的令牌.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
