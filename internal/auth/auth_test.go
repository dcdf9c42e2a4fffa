package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, k string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[k]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, k, v string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[k] = v
	return nil
}

func (m *memKV) Delete(_ context.Context, k string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, k)
	return nil
}

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newAuth(kv KV, secret string) *TokenAuth {
	a := NewTokenAuth(kv, secret, nil)
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestNoTokenIsUnauthenticated(t *testing.T) {
	a := newAuth(newMemKV(), "")
	assert.False(t, a.Authenticated())
}

func TestLoginStoresTokenAndAuthenticates(t *testing.T) {
	kv := newMemKV()
	a := newAuth(kv, "s3cret")
	tok := sign(t, "s3cret", jwt.MapClaims{"user_id": "u1", "exp": fixedNow.Add(time.Hour).Unix()})

	id, err := a.Login(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.True(t, a.Authenticated())

	stored, ok, _ := kv.Get(context.Background(), TokenKey)
	assert.True(t, ok)
	assert.Equal(t, tok, stored)

	b := newAuth(kv, "s3cret")
	require.NoError(t, b.Load(context.Background()))
	assert.True(t, b.Authenticated())

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.Authenticated())
	_, ok, _ = kv.Get(context.Background(), TokenKey)
	assert.False(t, ok)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name:   "wrong signature",
			secret: "right",
			token: func(t *testing.T) string {
				return sign(t, "wrong", jwt.MapClaims{"user_id": "u"})
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:   "expired verified",
			secret: "k",
			token: func(t *testing.T) string {
				return sign(t, "k", jwt.MapClaims{"user_id": "u", "exp": fixedNow.Add(-time.Minute).Unix()})
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "expired unverified",
			token: func(t *testing.T) string {
				return sign(t, "any", jwt.MapClaims{"user_id": "u", "exp": fixedNow.Add(-time.Minute).Unix()})
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "no user",
			token: func(t *testing.T) string {
				return sign(t, "any", jwt.MapClaims{"exp": fixedNow.Add(time.Hour).Unix()})
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "garbage",
			token:   func(*testing.T) string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAuth(newMemKV(), tt.secret)
			_, err := a.Validate(tt.token(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUnverifiedAcceptsSubject(t *testing.T) {
	a := newAuth(newMemKV(), "")
	id, err := a.Validate(sign(t, "whatever", jwt.MapClaims{"sub": "learner-7"}))
	require.NoError(t, err)
	assert.Equal(t, "learner-7", id.UserID)
	assert.True(t, id.ExpiresAt.IsZero())
}

func TestLoginRejectsInvalidWithoutStoring(t *testing.T) {
	kv := newMemKV()
	a := newAuth(kv, "")
	_, err := a.Login(context.Background(), "junk")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, ok, _ := kv.Get(context.Background(), TokenKey)
	assert.False(t, ok)
}

func TestUseTokenIsProcessLocal(t *testing.T) {
	kv := newMemKV()
	a := newAuth(kv, "")
	a.UseToken(sign(t, "x", jwt.MapClaims{"user_id": "env"}))
	assert.True(t, a.Authenticated())
	_, ok, _ := kv.Get(context.Background(), TokenKey)
	assert.False(t, ok)
}

func TestStatic(t *testing.T) {
	assert.True(t, Static(true).Authenticated())
	assert.False(t, Static(false).Authenticated())
}
