package service

import (
	a "bitwise74/task-api/aws"
	"bitwise74/task-api/internal/model"
	"bytes"
	"context"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}}
}

func (m *memBucket) Put(_ context.Context, key, _ string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = body
	return nil
}

func (m *memBucket) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.objects[key]
	if !ok {
		return nil, a.ErrObjectNotFound
	}
	return b, nil
}

func (m *memBucket) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}

func TestSetAvatarStoresNormalizedPNG(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()
	acc, _ := e.register(t, "Ann", "ann@example.com")

	require.NoError(t, e.accounts.SetAvatar(ctx, acc, fileHeader(t, "me.PNG", pngBytes(t, 400, 300))))
	assert.True(t, acc.HasAvatar)

	data, err := e.accounts.Avatar(ctx, acc.ID)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 250, img.Bounds().Dx())
	assert.Equal(t, 250, img.Bounds().Dy())

	// Replacing keeps a single avatar
	require.NoError(t, e.accounts.SetAvatar(ctx, acc, fileHeader(t, "again.jpg.png", pngBytes(t, 50, 50))))
	again, err := e.accounts.Avatar(ctx, acc.ID)
	require.NoError(t, err)
	assert.NotEqual(t, data, again)
}

func TestSetAvatarRejected(t *testing.T) {
	cases := map[string]struct {
		name string
		data func(t *testing.T) []byte
	}{
		"wrong extension":      {"me.gif", func(t *testing.T) []byte { return pngBytes(t, 10, 10) }},
		"extension not at end": {"me.png.exe", func(t *testing.T) []byte { return pngBytes(t, 10, 10) }},
		"not an image":         {"me.png", func(*testing.T) []byte { return []byte("definitely not a picture") }},
		"too large":            {"me.png", func(*testing.T) []byte { return bytes.Repeat([]byte{0x89}, 1_000_001) }},
		"too many pixels":      {"me.png", func(t *testing.T) []byte { return oversizedPNG(t, 30000, 30000) }},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t, nil)
			acc, _ := e.register(t, "Ann", "ann@example.com")

			err := e.accounts.SetAvatar(context.Background(), acc, fileHeader(t, tc.name, tc.data(t)))
			assert.ErrorIs(t, err, ErrUploadRejected)
			assert.False(t, acc.HasAvatar)

			_, err = e.accounts.Avatar(context.Background(), acc.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSetAvatarMissingFile(t *testing.T) {
	e := newTestEnv(t, nil)
	acc, _ := e.register(t, "Ann", "ann@example.com")

	assert.ErrorIs(t, e.accounts.SetAvatar(context.Background(), acc, nil), ErrUploadRejected)
}

func TestClearAvatar(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()
	acc, _ := e.register(t, "Ann", "ann@example.com")

	require.NoError(t, e.accounts.SetAvatar(ctx, acc, fileHeader(t, "me.png", pngBytes(t, 20, 20))))
	require.NoError(t, e.accounts.ClearAvatar(ctx, acc))
	assert.False(t, acc.HasAvatar)

	_, err := e.accounts.Avatar(ctx, acc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing twice is fine
	assert.NoError(t, e.accounts.ClearAvatar(ctx, acc))
}

func TestAvatarUnknownAccount(t *testing.T) {
	e := newTestEnv(t, nil)

	_, err := e.accounts.Avatar(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestObjectAvatars(t *testing.T) {
	bucket := newMemBucket()
	e := newTestEnv(t, ObjectAvatars{Store: bucket})
	ctx := context.Background()
	acc, _ := e.register(t, "Ann", "ann@example.com")

	require.NoError(t, e.accounts.SetAvatar(ctx, acc, fileHeader(t, "me.jpeg.png", pngBytes(t, 30, 30))))
	assert.Equal(t, "avatars/"+acc.ID+".png", acc.AvatarKey)
	assert.Empty(t, acc.Avatar)
	assert.Contains(t, bucket.objects, acc.AvatarKey)

	data, err := e.accounts.Avatar(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, bucket.objects[acc.AvatarKey], data)

	require.NoError(t, e.accounts.Delete(ctx, acc))
	assert.Empty(t, bucket.objects)
}

func TestObjectAvatarsMissingObject(t *testing.T) {
	o := ObjectAvatars{Store: newMemBucket()}

	_, err := o.Get(context.Background(), &model.Account{ID: "x", AvatarKey: "avatars/x.png"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = o.Get(context.Background(), &model.Account{ID: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvatarSurvivesProfileUpdate(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()
	acc, token := e.register(t, "Ann", "ann@example.com")

	require.NoError(t, e.accounts.SetAvatar(ctx, acc, fileHeader(t, "me.png", pngBytes(t, 40, 40))))
	want, err := e.accounts.Avatar(ctx, acc.ID)
	require.NoError(t, err)

	// Authenticated requests carry an account without the avatar bytes
	authed, _, err := e.sessions.Verify(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, authed.Avatar)
	assert.True(t, authed.HasAvatar)

	require.NoError(t, e.accounts.Update(ctx, authed, fields(t, `{"name":"Annie"}`)))

	got, err := e.accounts.Avatar(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Clearing through the same account still removes it
	require.NoError(t, e.accounts.ClearAvatar(ctx, authed))
	_, err = e.accounts.Avatar(ctx, acc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
