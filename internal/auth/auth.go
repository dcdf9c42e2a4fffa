// Package auth decides whether the learner is signed in. Submitting,
// starring and note taking require a valid token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhisek/codebench/internal/logging"
)

// TokenKey is the KV key the signed-in token is stored under.
const TokenKey = "codebench.auth.token"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Capability reports whether gated actions are allowed.
type Capability interface {
	Authenticated() bool
}

// Static is a fixed Capability.
type Static bool

func (s Static) Authenticated() bool { return bool(s) }

// KV is durable string key/value storage.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Identity is what a valid token says about the learner.
type Identity struct {
	UserID    string
	ExpiresAt time.Time // zero when the token never expires
}

// TokenAuth holds a JWT in a KV. With a secret the HS256 signature is
// verified; without one only the claims and expiry are checked.
type TokenAuth struct {
	kv     KV
	secret []byte
	now    func() time.Time
	logger *slog.Logger

	mu    sync.Mutex
	token string
}

// NewTokenAuth returns a TokenAuth backed by kv.
func NewTokenAuth(kv KV, secret string, logger *slog.Logger) *TokenAuth {
	a := &TokenAuth{kv: kv, now: time.Now, logger: logging.OrDiscard(logger)}
	if secret != "" {
		a.secret = []byte(secret)
	}
	return a
}

// Load reads the stored token.
func (a *TokenAuth) Load(ctx context.Context) error {
	tok, ok, err := a.kv.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if !ok {
		return nil
	}
	a.mu.Lock()
	a.token = tok
	a.mu.Unlock()
	return nil
}

// UseToken sets the token for this process only, as from the environment.
func (a *TokenAuth) UseToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

// Login validates token and stores it.
func (a *TokenAuth) Login(ctx context.Context, token string) (Identity, error) {
	id, err := a.Validate(token)
	if err != nil {
		return Identity{}, err
	}
	if err := a.kv.Set(ctx, TokenKey, token); err != nil {
		return Identity{}, fmt.Errorf("store token: %w", err)
	}
	a.UseToken(token)
	return id, nil
}

// Logout forgets the token.
func (a *TokenAuth) Logout(ctx context.Context) error {
	a.UseToken("")
	if err := a.kv.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Identity returns the identity of the current token.
func (a *TokenAuth) Identity() (Identity, error) {
	a.mu.Lock()
	tok := a.token
	a.mu.Unlock()
	if tok == "" {
		return Identity{}, ErrInvalidToken
	}
	return a.Validate(tok)
}

// Authenticated reports whether the current token is valid right now.
func (a *TokenAuth) Authenticated() bool {
	_, err := a.Identity()
	if err != nil && !errors.Is(err, ErrInvalidToken) {
		a.logger.Debug("token rejected", "err", err)
	}
	return err == nil
}

// Validate parses token and checks its signature (when a secret is set),
// its expiry and that it names a user.
func (a *TokenAuth) Validate(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if a.secret != nil {
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(a.now),
		)
		_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return a.secret, nil
		})
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		if err != nil {
			return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	var id Identity
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if exp != nil {
		id.ExpiresAt = exp.Time
		if !a.now().Before(exp.Time) {
			return Identity{}, ErrExpiredToken
		}
	}

	id.UserID, _ = claims["user_id"].(string)
	if id.UserID == "" {
		id.UserID, _ = claims.GetSubject()
	}
	if id.UserID == "" {
		return Identity{}, fmt.Errorf("%w: no user_id or sub claim", ErrInvalidToken)
	}
	return id, nil
}
