package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesClient is the part of the SES API the service uses
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends account emails through Amazon SES. With no sender
// address configured it is disabled and every send is a no-op.
type EmailService struct {
	client     sesClient
	logger     *slog.Logger
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// EmailConfig is the SES setup for NewEmailService
type EmailConfig struct {
	Region     string
	FromEmail  string
	FromName   string
	AppBaseURL string
	Debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(ctx context.Context, logger *slog.Logger, cfg EmailConfig) (*EmailService, error) {
	if cfg.FromEmail == "" {
		logger.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{logger: logger}, nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.Debug {
		logger.Debug("email service configured", "region", cfg.Region, "from", cfg.FromEmail, "base_url", cfg.AppBaseURL)
	}
	logger.Info("email service enabled", "from", cfg.FromEmail, "region", cfg.Region)

	return newEmailService(logger, sesv2.NewFromConfig(awsCfg), cfg), nil
}

func newEmailService(logger *slog.Logger, client sesClient, cfg EmailConfig) *EmailService {
	return &EmailService{
		client:     client,
		logger:     logger,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		appBaseURL: cfg.AppBaseURL,
		enabled:    true,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a new player account
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		s.logger.Debug("skipping welcome email, service disabled")
		return nil
	}

	subject := "Welcome to ReadingQuest!"
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #2f855a;">Welcome to ReadingQuest!</h1>
		<p>Hi %s,</p>
		<p>Your account is ready. Games you play while signed in are saved as you go, and finished games can join the leaderboard.</p>
		<ul>
			<li>The Enchanted Forest Adventure</li>
			<li>Sentence Builder</li>
		</ul>
		<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #2f855a; color: white; text-decoration: none; border-radius: 5px;">Start playing</a></p>
		<p style="font-size: 12px; color: #666;">This is an automated email from ReadingQuest. Please do not reply.</p>
	</div>
</body>
</html>
`, html.EscapeString(toName), html.EscapeString(s.appBaseURL))

	textBody := fmt.Sprintf(`Hi %s,

Your account is ready. Games you play while signed in are saved as you go, and finished games can join the leaderboard.

Start playing: %s

---
This is an automated email from ReadingQuest. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	attrs := []any{"subject", subject}
	if result != nil && result.MessageId != nil {
		attrs = append(attrs, "message_id", *result.MessageId)
	}
	s.logger.Info("email sent", attrs...)
	return nil
}
