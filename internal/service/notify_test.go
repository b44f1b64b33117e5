package service

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu    sync.Mutex
	sent  []Mail
	err   error
	panic bool
}

func (f *fakeMailer) Send(_ context.Context, m Mail) error {
	if f.panic {
		panic("boom")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, m)
	return f.err
}

func (f *fakeMailer) mails() []Mail {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Mail(nil), f.sent...)
}

func TestNotifierSendsLifecycleMails(t *testing.T) {
	m := &fakeMailer{}
	n := NewNotifier(m)

	n.Welcome("ann@x.com", "Ann")
	n.Cancellation("ann@x.com", "Ann")
	n.Wait()

	sent := m.mails()
	require.Len(t, sent, 2)

	subjects := []string{sent[0].Subject, sent[1].Subject}
	assert.ElementsMatch(t, []string{"Welcome to Task Manager App.", "We are sad to see you go!"}, subjects)
	for _, mail := range sent {
		assert.Equal(t, "ann@x.com", mail.To)
		assert.Contains(t, mail.Body, "Ann")
	}
}

func TestNotifierSwallowsFailures(t *testing.T) {
	n := NewNotifier(&fakeMailer{err: errors.New("smtp down")})
	n.Welcome("ann@x.com", "Ann")
	n.Wait()

	n = NewNotifier(&fakeMailer{panic: true})
	assert.NotPanics(t, func() {
		n.Cancellation("ann@x.com", "Ann")
		n.Wait()
	})
}

func TestNilNotifierIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() { n.Welcome("a@b.com", "A") })
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), Mail{To: "a@b.com"}))
}

func TestSMTPMailerSendsToSenderAddress(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	dialed := make(chan struct{}, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		dialed <- struct{}{}
		conn.Close()
	}()

	m := NewSMTPMailer("127.0.0.1", ln.Addr().(*net.TCPAddr).Port, "", "", "noreply@x.com")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The relay hangs up, only the attempt matters
	_ = m.Send(ctx, Mail{To: "noreply@x.com", Subject: "s", Body: "b"})

	select {
	case <-dialed:
	case <-time.After(5 * time.Second):
		t.Fatal("mail to the sender address never reached the relay")
	}
}
