package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeisme/filevault/pkg/cache"
	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/storage/kv"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	accounts := service.NewAccounts(newMemStore(), bcrypt.MinCost)

	user, err := accounts.Register(ctx, service.RegisterInput{Username: " alice ", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	admin, err := accounts.Register(ctx, service.RegisterInput{Username: "root", Password: "toor!", Admin: true})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	_, err = accounts.Register(ctx, service.RegisterInput{Username: "alice", Password: "other"})

	var storeErr *service.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.True(t, storeErr.Duplicate())

	got, err := accounts.Authenticate(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = accounts.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = accounts.Authenticate(ctx, "nobody", "hunter22")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	byID, err := accounts.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func newSessions(t *testing.T, ttl time.Duration) *service.SessionManager {
	t.Helper()

	return service.NewSessionManager(cache.NewCache(kv.NewMemory()), configs.AuthConfig{
		Secret:     "test-secret-value",
		Issuer:     "filevault-test",
		SessionTTL: ttl,
	})
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	sessions := newSessions(t, time.Hour)
	user := &model.User{ID: 7, Username: "alice", Role: model.RoleAdmin}

	token, sess, err := sessions.Issue(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	id, err := sessions.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, service.Identity{UserID: 7, Username: "alice", Role: model.RoleAdmin}, id)
	assert.True(t, id.IsAdmin())

	require.NoError(t, sessions.Revoke(ctx, token))

	_, err = sessions.Resolve(ctx, token)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestSessionRejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	user := &model.User{ID: 7, Username: "alice", Role: model.RoleUser}

	other := service.NewSessionManager(cache.NewCache(kv.NewMemory()), configs.AuthConfig{
		Secret: "another-secret", Issuer: "filevault-test", SessionTTL: time.Hour,
	})

	token, _, err := other.Issue(ctx, user)
	require.NoError(t, err)

	sessions := newSessions(t, time.Hour)

	for _, tok := range []string{"", "not-a-jwt", token} {
		_, err := sessions.Resolve(ctx, tok)
		assert.ErrorIs(t, err, service.ErrUnauthenticated, tok)
	}
}

func TestSessionListAndRevokeByID(t *testing.T) {
	ctx := context.Background()
	sessions := newSessions(t, time.Hour)

	aliceToken, aliceSess, err := sessions.Issue(ctx, &model.User{ID: 1, Username: "alice", Role: model.RoleUser})
	require.NoError(t, err)

	_, _, err = sessions.Issue(ctx, &model.User{ID: 2, Username: "bob", Role: model.RoleUser})
	require.NoError(t, err)

	all, err := sessions.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := sessions.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, aliceSess.ID, mine[0].ID)

	require.NoError(t, sessions.RevokeID(ctx, aliceSess.ID))

	_, err = sessions.Resolve(ctx, aliceToken)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	mine, err = sessions.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
