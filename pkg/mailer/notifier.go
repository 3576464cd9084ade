package mailer

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/internal/domain/gateway"
	mailtpl "github.com/oksasatya/festronix-auth/pkg/mailer/templates"
)

// DirectNotifier renders the OTP email and hands it to a Sender in-request.
type DirectNotifier struct {
	Sender   Sender
	Branding mailtpl.Branding
}

func NewDirectNotifier(s Sender, b mailtpl.Branding) *DirectNotifier {
	return &DirectNotifier{Sender: s, Branding: b}
}

func (n *DirectNotifier) SendOTP(ctx context.Context, msg gateway.OTPMessage) error {
	subject, text, html, err := mailtpl.Render(mailtpl.OTP, mailtpl.NewOTPData(n.Branding, msg))
	if err != nil {
		return err
	}
	return n.Sender.Send(ctx, msg.To, subject, text, html)
}

// Publisher is the queue side of RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier publishes an EmailJob for cmd/email_worker; delivery
// errors here mean the broker rejected the job.
type QueueNotifier struct {
	Pub      Publisher
	Branding mailtpl.Branding
}

func NewQueueNotifier(p Publisher, b mailtpl.Branding) *QueueNotifier {
	return &QueueNotifier{Pub: p, Branding: b}
}

func (n *QueueNotifier) SendOTP(ctx context.Context, msg gateway.OTPMessage) error {
	job := EmailJob{
		To:       msg.To,
		Template: mailtpl.OTP,
		Data:     mailtpl.ToMap(mailtpl.NewOTPData(n.Branding, msg)),
	}
	return n.Pub.PublishJSON(ctx, job)
}

// LogNotifier is used when MAIL_SEND_ENABLED=false. It never logs the code.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (n *LogNotifier) SendOTP(_ context.Context, msg gateway.OTPMessage) error {
	if n.Logger != nil {
		n.Logger.WithField("to", msg.To).WithField("expires_at", msg.ExpiresAt).Info("mail sending disabled; otp not delivered")
	}
	return nil
}

// RenderJob turns a queued job into subject/text/html.
func RenderJob(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	return mailtpl.Render(job.Template, job.Data)
}

var (
	_ gateway.Notifier = (*DirectNotifier)(nil)
	_ gateway.Notifier = (*QueueNotifier)(nil)
	_ gateway.Notifier = (*LogNotifier)(nil)
)
