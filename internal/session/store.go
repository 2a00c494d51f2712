package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionExpired = errors.New("session has expired, please login again")
	ErrAccountLocked  = errors.New("too many failed login attempts, account temporarily locked")
)

// How long failed-login counters linger before the slate is wiped.
const lockoutWindow = 15 * time.Minute

// Store keeps staff sessions in Redis. A session's key TTL is its idle
// timeout: every authenticated request refreshes it, so a key that has fallen
// out means the user was inactive past the configured limit. Last-writer-wins
// on concurrent refreshes is fine, it only affects timeout approximation.
type Store struct {
	client      *redis.Client
	idleTimeout time.Duration
	maxAttempts int
}

func NewStore(client *redis.Client, idleTimeout time.Duration, maxAttempts int) *Store {
	return &Store{
		client:      client,
		idleTimeout: idleTimeout,
		maxAttempts: maxAttempts,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func attemptsKey(username string) string {
	return fmt.Sprintf("login_attempts:%s", username)
}

// Start registers a fresh session for actorID and returns its opaque token.
func (s *Store) Start(ctx context.Context, actorID uuid.UUID) (string, error) {
	token := uuid.NewString()

	if err := s.client.Set(ctx, sessionKey(token), actorID.String(), s.idleTimeout).Err(); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return token, nil
}

// Touch records activity on the session and returns the actor it belongs to.
// A missing key means the idle timeout elapsed; the caller must force
// re-authentication.
func (s *Store) Touch(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.client.GetEx(ctx, sessionKey(token), s.idleTimeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrSessionExpired
		}
		return uuid.Nil, fmt.Errorf("touch session: %w", err)
	}

	actorID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session value: %w", err)
	}
	return actorID, nil
}

// End invalidates the session immediately (logout or forced expiry).
func (s *Store) End(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// RecordLoginFailure bumps the failed-attempt counter for username and reports
// whether the account is now locked out.
func (s *Store) RecordLoginFailure(ctx context.Context, username string) (int, bool, error) {
	key := attemptsKey(username)

	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("record login failure: %w", err)
	}
	// Reset the window on each failure so a slow brute force doesn't slip by.
	if err := s.client.Expire(ctx, key, lockoutWindow).Err(); err != nil {
		return int(n), false, fmt.Errorf("set lockout window: %w", err)
	}

	return int(n), int(n) >= s.maxAttempts, nil
}

// Locked reports whether username has exhausted its allowed login attempts.
func (s *Store) Locked(ctx context.Context, username string) (bool, error) {
	val, err := s.client.Get(ctx, attemptsKey(username)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check lockout: %w", err)
	}
	return val >= s.maxAttempts, nil
}

// ClearLoginFailures resets the counter after a successful login.
func (s *Store) ClearLoginFailures(ctx context.Context, username string) error {
	if err := s.client.Del(ctx, attemptsKey(username)).Err(); err != nil {
		return fmt.Errorf("clear login failures: %w", err)
	}
	return nil
}
