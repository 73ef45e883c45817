package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vzaimoBack/internal/flow"
	"vzaimoBack/internal/models"
)

// SessionTTL is how long an abandoned conversation survives before redis
// expires it.
const SessionTTL = 24 * time.Hour

const codeTTL = 5 * time.Minute

// FlowSessionRepository keeps per-user conversation state in redis. It
// implements flow.Store.
type FlowSessionRepository struct {
	RDB *redis.Client
}

func sessionKey(userID int) string {
	return fmt.Sprintf("flow:session:%d", userID)
}

func codeKey(phone string) string {
	return fmt.Sprintf("verify:code:%s", phone)
}

func (r *FlowSessionRepository) Get(ctx context.Context, userID int) (flow.Session, bool, error) {
	raw, err := r.RDB.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return flow.Session{}, false, nil
		}
		return flow.Session{}, false, err
	}

	var sess flow.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		// Corrupt session payloads are unrecoverable; drop them.
		r.RDB.Del(ctx, sessionKey(userID))
		return flow.Session{}, false, nil
	}
	return sess, true, nil
}

func (r *FlowSessionRepository) Save(ctx context.Context, sess flow.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, sessionKey(sess.UserID), raw, SessionTTL).Err()
}

func (r *FlowSessionRepository) Delete(ctx context.Context, userID int) error {
	return r.RDB.Del(ctx, sessionKey(userID)).Err()
}

// SaveVerificationCode stores the SMS code sent during registration.
func (r *FlowSessionRepository) SaveVerificationCode(ctx context.Context, phone, code string) error {
	return r.RDB.Set(ctx, codeKey(phone), code, codeTTL).Err()
}

// CheckVerificationCode compares the submitted code against the stored one
// and consumes it on success.
func (r *FlowSessionRepository) CheckVerificationCode(ctx context.Context, phone, code string) error {
	stored, err := r.RDB.Get(ctx, codeKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.ErrInvalidCode
		}
		return err
	}
	if stored != code {
		return models.ErrInvalidCode
	}
	r.RDB.Del(ctx, codeKey(phone))
	return nil
}
