package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/pkg/jobs"
)

type fakeTelegram struct {
	mu      sync.Mutex
	enabled bool
	sent    []string
}

func (f *fakeTelegram) Enabled() bool { return f.enabled }

func (f *fakeTelegram) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeTelegram) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

func waitForMessages(t *testing.T, telegram *fakeTelegram, want int) []string {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		msgs := telegram.messages()
		if len(msgs) >= want {
			return msgs
		}
		select {
		case <-deadline:
			t.Fatalf("expected %d messages, got %d", want, len(msgs))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestNotifyPurchaseDelivers(t *testing.T) {
	telegram := &fakeTelegram{enabled: true}
	svc := NewNotificationService(telegram, jobs.QueueConfig{Workers: 1}, zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	svc.NotifyPurchase("Buyer <One>", "buyer@example.com", []string{"Go & Friends"}, 49)

	msgs := waitForMessages(t, telegram, 1)
	assert.Contains(t, msgs[0], "💰")
	assert.Contains(t, msgs[0], "Buyer &lt;One&gt;")
	assert.Contains(t, msgs[0], "Go &amp; Friends")
	assert.Contains(t, msgs[0], "49.00")
}

func TestNotifyNewUserEscapesHTML(t *testing.T) {
	telegram := &fakeTelegram{enabled: true}
	svc := NewNotificationService(telegram, jobs.QueueConfig{Workers: 1}, zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	svc.NotifyNewUser("<script>", "new@example.com")

	msgs := waitForMessages(t, telegram, 1)
	require.Contains(t, msgs[0], "&lt;script&gt;")
	assert.Contains(t, msgs[0], "🎉")
}

func TestNotifySkippedWhenDisabled(t *testing.T) {
	telegram := &fakeTelegram{enabled: false}
	svc := NewNotificationService(telegram, jobs.QueueConfig{Workers: 1}, zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	svc.NotifyNewUser("Name", "mail@example.com")
	svc.NotifyContactSales("Name", "+998", "Course")

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, telegram.messages())
}
