package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/pkg/jobs"
)

const (
	notifyJobNewUser      = "notify.new-user"
	notifyJobPurchase     = "notify.purchase"
	notifyJobContactSales = "notify.contact-sales"
)

type telegramSender interface {
	Enabled() bool
	Send(ctx context.Context, text string) error
}

// notificationMessage is the queued payload: a fully rendered Telegram text.
type notificationMessage struct {
	Text string
}

// NotificationService renders business-event messages and dispatches them to
// Telegram through a background queue so request handling never waits on the
// messenger API.
type NotificationService struct {
	telegram telegramSender
	queue    *jobs.Queue
	logger   *zap.Logger
}

// NewNotificationService constructs the service and its dispatch queue. Call
// Start before enqueueing and Stop on shutdown.
func NewNotificationService(telegram telegramSender, cfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{telegram: telegram, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.deliver, cfg)
	return s
}

// Start launches the dispatch workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// NotifyNewUser announces a fresh registration.
func (s *NotificationService) NotifyNewUser(name, email string) {
	text := fmt.Sprintf("🎉 <b>New user registered</b>\nName: %s\nEmail: %s",
		html.EscapeString(name), html.EscapeString(email))
	s.enqueue(notifyJobNewUser, text)
}

// NotifyPurchase announces a completed checkout.
func (s *NotificationService) NotifyPurchase(name, email string, courseTitles []string, total float64) {
	escaped := make([]string, len(courseTitles))
	for i, title := range courseTitles {
		escaped[i] = html.EscapeString(title)
	}
	text := fmt.Sprintf("💰 <b>New purchase</b>\nBuyer: %s (%s)\nCourses: %s\nTotal: %.2f",
		html.EscapeString(name), html.EscapeString(email), strings.Join(escaped, ", "), total)
	s.enqueue(notifyJobPurchase, text)
}

// NotifyContactSales announces a callback request.
func (s *NotificationService) NotifyContactSales(name, phone, courseTitle string) {
	text := fmt.Sprintf("📞 <b>Contact request</b>\nName: %s\nPhone: %s\nCourse: %s",
		html.EscapeString(name), html.EscapeString(phone), html.EscapeString(courseTitle))
	s.enqueue(notifyJobContactSales, text)
}

func (s *NotificationService) enqueue(jobType, text string) {
	if s.telegram == nil || !s.telegram.Enabled() {
		return
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobType,
		Payload: notificationMessage{Text: text},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("type", jobType), zap.Error(err))
	}
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(notificationMessage)
	if !ok {
		s.logger.Error("notification job carries unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.telegram.Send(ctx, msg.Text)
}
