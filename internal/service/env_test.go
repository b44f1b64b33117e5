package service

import (
	"bitwise74/task-api/db"
	"bitwise74/task-api/internal/model"
	"bitwise74/task-api/pkg/security"
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	mailer   *fakeMailer
	notifier *Notifier
	sessions *Sessions
	accounts *Accounts
	tasks    *Tasks
}

func cheapHasher() *security.ArgonHash {
	return &security.ArgonHash{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func newTestEnv(t *testing.T, avatars AvatarStore) *testEnv {
	t.Helper()

	gdb, err := db.New("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	m := &fakeMailer{}
	n := NewNotifier(m)
	s := NewSessions(gdb, security.NewTokenCodec("test-secret", time.Hour))

	return &testEnv{
		db:       gdb,
		mailer:   m,
		notifier: n,
		sessions: s,
		accounts: NewAccounts(gdb, cheapHasher(), s, n, avatars, 1_000_000),
		tasks:    NewTasks(gdb),
	}
}

func (e *testEnv) register(t *testing.T, name, email string) (*model.Account, string) {
	t.Helper()

	acc, token, err := e.accounts.Register(context.Background(), Registration{
		Name:     name,
		Email:    email,
		Password: "correct-horse",
		Age:      30,
	})
	require.NoError(t, err)

	return acc, token
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader builds the header multipart parsing would hand to a handler
func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("avatar", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	require.Len(t, form.File["avatar"], 1)
	return form.File["avatar"][0]
}

// oversizedPNG returns a tiny PNG whose header declares w x h pixels
func oversizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	b := buf.Bytes()

	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))

	return b
}
