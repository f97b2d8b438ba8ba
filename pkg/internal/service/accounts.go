package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yeisme/filevault/pkg/internal/model"
)

// RegisterInput 注册参数，格式校验在接入层完成.
type RegisterInput struct {
	Username string
	Password string
	Admin    bool
}

// Accounts 账号注册与登录.
type Accounts struct {
	users UserStore
	cost  int
}

// NewAccounts 创建账号服务，cost 为 bcrypt 强度.
func NewAccounts(users UserStore, cost int) *Accounts {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Accounts{users: users, cost: cost}
}

// Register 注册新用户，用户名冲突时返回 Duplicate() 为 true 的 StoreError.
func (a *Accounts) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return nil, &StoreError{Op: "hash password", Err: err}
	}

	role := model.RoleUser
	if in.Admin {
		role = model.RoleAdmin
	}

	user := &model.User{Username: username, PasswordHash: string(hash), Role: role}
	if err := a.users.CreateUser(ctx, user); err != nil {
		return nil, &StoreError{Op: "create user", Err: err}
	}

	return user, nil
}

// Authenticate 校验用户名与密码，用户不存在与密码错误返回同一个错误.
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := a.users.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, storeErr("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Get 按 ID 查找用户.
func (a *Accounts) Get(ctx context.Context, userID uint) (*model.User, error) {
	user, err := a.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr("find user", err)
	}

	return user, nil
}
