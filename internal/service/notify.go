package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// Notifier sends account lifecycle mails without blocking the request that
// triggered them. Failures are logged and dropped, there is no retry
type Notifier struct {
	mailer Mailer
	wg     sync.WaitGroup
}

func NewNotifier(m Mailer) *Notifier {
	return &Notifier{mailer: m}
}

func (n *Notifier) Welcome(email, name string) {
	n.dispatch(Mail{
		To:      email,
		Subject: "Welcome to Task Manager App.",
		Body:    fmt.Sprintf("Welcome to the Task Manager App, %s. Thanks for signing up.", name),
	})
}

func (n *Notifier) Cancellation(email, name string) {
	n.dispatch(Mail{
		To:      email,
		Subject: "We are sad to see you go!",
		Body:    fmt.Sprintf("Hi %s, \nYou have been successfully unsubscribed from Task Manager app. Please let us know what can we do to improve.", name),
	})
}

// Wait blocks until every mail dispatched so far was handed to the mailer
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(m Mail) {
	if n == nil || n.mailer == nil {
		return
	}

	n.wg.Add(1)

	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("Mailer panicked", zap.Any("panic", r), zap.String("subject", m.Subject))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := n.mailer.Send(ctx, m); err != nil {
			zap.L().Warn("Failed to send notification mail", zap.Error(err), zap.String("subject", m.Subject))
		}
	}()
}
