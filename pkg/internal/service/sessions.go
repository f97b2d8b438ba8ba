package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yeisme/filevault/pkg/cache"
	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
)

const sessionKeyPrefix = "session:"

// Session 存放在 KV 中的会话记录.
type Session struct {
	ID        string     `json:"id"`
	UserID    uint       `json:"user_id"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// SessionManager 签发与校验会话令牌.
// 令牌本身只证明签名有效，注销后 KV 中的记录被删除，令牌随即失效.
type SessionManager struct {
	cache  *cache.Cache
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager 创建会话管理器.
func NewSessionManager(c *cache.Cache, cfg configs.AuthConfig) *SessionManager {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = configs.DefaultSessionTTL
	}

	return &SessionManager{
		cache:  c,
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL 返回会话有效期.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue 为用户签发令牌并写入会话记录.
func (m *SessionManager) Issue(ctx context.Context, user *model.User) (string, *Session, error) {
	now := m.now()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   fmt.Sprint(user.ID),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := cache.Set(ctx, m.cache, sessionKeyPrefix+sess.ID, *sess, m.ttl); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return token, sess, nil
}

// Resolve 校验令牌并返回身份，任何失败都返回 ErrUnauthenticated.
func (m *SessionManager) Resolve(ctx context.Context, token string) (Identity, error) {
	claims, err := m.parse(token)
	if err != nil {
		return Identity{}, err
	}

	sess, err := cache.Get[Session](ctx, m.cache, sessionKeyPrefix+claims.ID)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}

	if sess.UserID == 0 || fmt.Sprint(sess.UserID) != claims.Subject {
		return Identity{}, ErrUnauthenticated
	}

	return Identity{UserID: sess.UserID, Username: sess.Username, Role: sess.Role}, nil
}

// Revoke 删除会话记录.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return err
	}

	return m.cache.Delete(ctx, sessionKeyPrefix+claims.ID)
}

// List 返回仍有效的会话记录，userID 为 0 时返回全部.
func (m *SessionManager) List(ctx context.Context, userID uint) ([]Session, error) {
	keys, err := m.cache.Keys(ctx, sessionKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]Session, 0, len(keys))

	for _, k := range keys {
		sess, err := cache.Get[Session](ctx, m.cache, k)
		if err != nil {
			// 列举与读取之间过期
			continue
		}

		if userID != 0 && sess.UserID != userID {
			continue
		}

		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ExpiresAt.Before(sessions[j].ExpiresAt) })

	return sessions, nil
}

// RevokeID 按会话 ID 删除记录，用于运维强制下线.
func (m *SessionManager) RevokeID(ctx context.Context, sessionID string) error {
	return m.cache.Delete(ctx, sessionKeyPrefix+sessionID)
}

func (m *SessionManager) parse(token string) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || claims.ID == "" {
		return nil, errors.Join(ErrUnauthenticated, err)
	}

	return claims, nil
}
