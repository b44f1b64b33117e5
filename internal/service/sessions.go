package service

import (
	"bitwise74/task-api/internal/model"
	"bitwise74/task-api/pkg/security"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"
)

// Sessions is the registry of currently accepted bearer tokens. A token is
// only honoured while its row exists, whatever its signature says
type Sessions struct {
	db    *gorm.DB
	codec *security.TokenCodec
}

func NewSessions(db *gorm.DB, codec *security.TokenCodec) *Sessions {
	return &Sessions{
		db:    db,
		codec: codec,
	}
}

// newToken signs a token for acc without persisting it
func (s *Sessions) newToken(acc *model.Account) (*model.SessionToken, error) {
	token, expiresAt, err := s.codec.Sign(acc.ID)
	if err != nil {
		return nil, err
	}

	st := &model.SessionToken{
		AccountID: acc.ID,
		Token:     token,
	}

	// Stored in UTC so the sweeper's comparison works on every driver
	if expiresAt != nil {
		exp := expiresAt.UTC()
		st.ExpiresAt = &exp
	}

	return st, nil
}

// Issue creates a token for acc, appends it to the account's sessions and
// persists it
func (s *Sessions) Issue(ctx context.Context, acc *model.Account) (string, error) {
	st, err := s.newToken(acc)
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return "", persistErr(err)
	}

	acc.Tokens = append(acc.Tokens, *st)
	return st.Token, nil
}

func (s *Sessions) RevokeOne(ctx context.Context, acc *model.Account, token string) error {
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND token = ?", acc.ID, token).
		Delete(&model.SessionToken{}).
		Error
	if err != nil {
		return persistErr(err)
	}

	acc.Tokens = slices.DeleteFunc(acc.Tokens, func(t model.SessionToken) bool {
		return t.Token == token
	})
	return nil
}

func (s *Sessions) RevokeAll(ctx context.Context, acc *model.Account) error {
	err := s.db.WithContext(ctx).
		Where("account_id = ?", acc.ID).
		Delete(&model.SessionToken{}).
		Error
	if err != nil {
		return persistErr(err)
	}

	acc.Tokens = nil
	return nil
}

// Verify resolves a bearer token to the account it was issued for. The
// token has to be correctly signed, unexpired and still present in that
// account's sessions
func (s *Sessions) Verify(ctx context.Context, token string) (*model.Account, string, error) {
	if token == "" {
		return nil, "", ErrUnauthorized
	}

	accountID, err := s.codec.Parse(token)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	var acc model.Account

	err = s.db.WithContext(ctx).
		Omit("avatar").
		Where("id = ?", accountID).
		Where("EXISTS (SELECT 1 FROM session_tokens WHERE session_tokens.account_id = accounts.id AND session_tokens.token = ?)", token).
		First(&acc).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUnauthorized
		}

		return nil, "", persistErr(err)
	}

	return &acc, token, nil
}

// PruneExpired deletes sessions whose token expired before now. Expired
// tokens are already rejected by Verify, this only keeps the table small
func (s *Sessions) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now.UTC()).
		Delete(&model.SessionToken{})
	if res.Error != nil {
		return 0, persistErr(res.Error)
	}

	return res.RowsAffected, nil
}
