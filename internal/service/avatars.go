package service

import (
	a "bitwise74/task-api/aws"
	"bitwise74/task-api/internal/model"
	"context"
	"errors"
)

// AvatarStore keeps the normalized PNG avatar of an account. Implementations
// only touch the avatar fields of acc, persisting the account is up to the
// caller
type AvatarStore interface {
	Put(ctx context.Context, acc *model.Account, png []byte) error
	Get(ctx context.Context, acc *model.Account) ([]byte, error)
	Remove(ctx context.Context, acc *model.Account) error
}

// DBAvatars keeps avatars inline in the accounts table
type DBAvatars struct{}

func (DBAvatars) Put(_ context.Context, acc *model.Account, png []byte) error {
	acc.Avatar = png
	return nil
}

func (DBAvatars) Get(_ context.Context, acc *model.Account) ([]byte, error) {
	if len(acc.Avatar) == 0 {
		return nil, ErrNotFound
	}

	return acc.Avatar, nil
}

func (DBAvatars) Remove(_ context.Context, acc *model.Account) error {
	acc.Avatar = nil
	return nil
}

// ObjectStore is the part of an S3 compatible bucket avatars need
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ObjectAvatars keeps avatars in a bucket under avatars/<account id>.png
type ObjectAvatars struct {
	Store ObjectStore
}

func avatarKey(acc *model.Account) string {
	return "avatars/" + acc.ID + ".png"
}

func (o ObjectAvatars) Put(ctx context.Context, acc *model.Account, png []byte) error {
	key := avatarKey(acc)
	if err := o.Store.Put(ctx, key, "image/png", png); err != nil {
		return err
	}

	acc.AvatarKey = key
	return nil
}

func (o ObjectAvatars) Get(ctx context.Context, acc *model.Account) ([]byte, error) {
	if acc.AvatarKey == "" {
		return nil, ErrNotFound
	}

	data, err := o.Store.Get(ctx, acc.AvatarKey)
	if errors.Is(err, a.ErrObjectNotFound) {
		return nil, ErrNotFound
	}

	return data, err
}

func (o ObjectAvatars) Remove(ctx context.Context, acc *model.Account) error {
	if acc.AvatarKey == "" {
		return nil
	}

	if err := o.Store.Delete(ctx, acc.AvatarKey); err != nil {
		return err
	}

	acc.AvatarKey = ""
	return nil
}
