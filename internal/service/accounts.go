package service

import (
	"bitwise74/task-api/internal/model"
	"bitwise74/task-api/pkg/imaging"
	"bitwise74/task-api/pkg/validators"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Hasher interface {
	GenerateFromPassword(p string) (string, error)
	VerifyPasswd(p, e string) (bool, error)
}

type Registration struct {
	Name     string
	Email    string
	Password string
	Age      int
}

type Accounts struct {
	db            *gorm.DB
	hasher        Hasher
	sessions      *Sessions
	notifier      *Notifier
	avatars       AvatarStore
	maxAvatarSize int64
}

func NewAccounts(db *gorm.DB, h Hasher, s *Sessions, n *Notifier, avatars AvatarStore, maxAvatarSize int64) *Accounts {
	if avatars == nil {
		avatars = DBAvatars{}
	}

	return &Accounts{
		db:            db,
		hasher:        h,
		sessions:      s,
		notifier:      n,
		avatars:       avatars,
		maxAvatarSize: maxAvatarSize,
	}
}

// Register creates an account together with its first session and returns
// the session's token. The welcome mail goes out after the commit
func (s *Accounts) Register(ctx context.Context, r Registration) (*model.Account, string, error) {
	id, err := newID()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate account ID, %w", err)
	}

	acc := &model.Account{
		ID:       id,
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Age:      r.Age,
	}

	st, err := s.sessions.newToken(acc)
	if err != nil {
		return nil, "", err
	}
	acc.Tokens = []model.SessionToken{*st}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.persist(tx, acc, "", "", true)
	})
	if err != nil {
		return nil, "", err
	}

	s.notifier.Welcome(acc.Email, acc.Name)

	return acc, st.Token, nil
}

// Login checks an email and password pair and opens a new session
func (s *Accounts) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	var acc model.Account

	err := s.db.WithContext(ctx).
		Omit("avatar").
		Where("email = ?", validators.NormalizeEmail(email)).
		First(&acc).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrAuthenticationFailed
		}

		return nil, "", persistErr(err)
	}

	ok, err := s.hasher.VerifyPasswd(password, acc.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, "", ErrAuthenticationFailed
	}

	token, err := s.sessions.Issue(ctx, &acc)
	if err != nil {
		return nil, "", err
	}

	return &acc, token, nil
}

// Update applies an allow-listed partial update to acc. On any error acc is
// left exactly as it was
func (s *Accounts) Update(ctx context.Context, acc *model.Account, fields map[string]json.RawMessage) error {
	next := *acc

	if err := Merge(fields, AccountFields, accountTargets(&next)); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.persist(tx, &next, acc.Password, acc.Email, false)
	})
	if err != nil {
		return err
	}

	*acc = next
	return nil
}

// persist validates acc and writes it. The password is validated and hashed
// only when it differs from loadedPassword, so saving an untouched account
// keeps the stored hash
func (s *Accounts) persist(tx *gorm.DB, acc *model.Account, loadedPassword, loadedEmail string, create bool) error {
	plain := create || acc.Password != loadedPassword

	if err := validators.AccountValidator(acc, plain); err != nil {
		return validationErr(err)
	}

	if create || acc.Email != loadedEmail {
		var taken int64

		err := tx.Model(&model.Account{}).
			Where("email = ? AND id <> ?", acc.Email, acc.ID).
			Count(&taken).
			Error
		if err != nil {
			return persistErr(err)
		}

		if taken > 0 {
			return &ValidationError{Field: "email", Err: ErrEmailTaken}
		}
	}

	if plain {
		hash, err := s.hasher.GenerateFromPassword(acc.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password, %w", err)
		}

		acc.Password = hash
	}

	var err error
	if create {
		err = tx.Create(acc).Error
	} else {
		// Avatar bytes are only loaded and written by the avatar methods
		err = tx.Omit(clause.Associations, "avatar").Save(acc).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ValidationError{Field: "email", Err: ErrEmailTaken}
		}

		return persistErr(err)
	}

	return nil
}

// Delete removes acc with its tasks and sessions in one transaction, then
// drops the stored avatar and sends the cancellation mail
func (s *Accounts) Delete(ctx context.Context, acc *model.Account) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", acc.ID).Delete(&model.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("account_id = ?", acc.ID).Delete(&model.SessionToken{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", acc.ID).Delete(&model.Account{}).Error
	})
	if err != nil {
		return persistErr(err)
	}

	if acc.AvatarKey != "" {
		if err := s.avatars.Remove(ctx, acc); err != nil {
			zap.L().Warn("Failed to remove avatar of deleted account", zap.String("accountID", acc.ID), zap.Error(err))
		}
	}

	s.notifier.Cancellation(acc.Email, acc.Name)
	return nil
}

// SetAvatar validates an uploaded picture, normalizes it and stores it as
// the avatar of acc
func (s *Accounts) SetAvatar(ctx context.Context, acc *model.Account, fh *multipart.FileHeader) error {
	f, err := validators.AvatarValidator(fh, s.maxAvatarSize)
	if err != nil {
		if errors.Is(err, validators.ErrNoFile) ||
			errors.Is(err, validators.ErrAvatarNotImage) ||
			errors.Is(err, validators.ErrAvatarTooLarge) {
			return fmt.Errorf("%w: %w", ErrUploadRejected, err)
		}

		return err
	}
	defer f.Close()

	png, err := imaging.Avatar(f, imaging.AvatarSize)
	if err != nil {
		if errors.Is(err, imaging.ErrInvalidImage) {
			return fmt.Errorf("%w: %w", ErrUploadRejected, err)
		}

		return err
	}

	next := *acc
	if err := s.avatars.Put(ctx, &next, png); err != nil {
		return fmt.Errorf("failed to store avatar, %w", err)
	}
	next.HasAvatar = true

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&next).Error; err != nil {
		return persistErr(err)
	}

	*acc = next
	return nil
}

func (s *Accounts) ClearAvatar(ctx context.Context, acc *model.Account) error {
	next := *acc
	if err := s.avatars.Remove(ctx, &next); err != nil {
		return fmt.Errorf("failed to remove avatar, %w", err)
	}

	next.Avatar = nil
	next.AvatarKey = ""
	next.HasAvatar = false

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&next).Error; err != nil {
		return persistErr(err)
	}

	*acc = next
	return nil
}

// Avatar returns the PNG avatar of the account with the given ID
func (s *Accounts) Avatar(ctx context.Context, id string) ([]byte, error) {
	var acc model.Account

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, persistErr(err)
	}

	if !acc.HasAvatar {
		return nil, ErrNotFound
	}

	return s.avatars.Get(ctx, &acc)
}

func validationErr(err error) error {
	var fe *validators.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Err: fe.Err}
	}

	return err
}
