package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends transactional mail through Amazon SES. When no
// sender address is configured the service runs disabled and every
// send becomes a logged no-op, so the rest of the app never has to
// check whether mail is set up.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled reports whether mail will actually be sent.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// emailShell is the shared HTML frame. Placeholders: header title,
// then the content block.
const emailShell = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		table { width: 100%%; border-collapse: collapse; }
		td { padding: 8px; border-bottom: 1px solid #ddd; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
%s
		</div>
		<div class="footer">
			<p>This is an automated email from BrainBlast!. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`

const emailTextFooter = "\n---\nThis is an automated email from BrainBlast!. Please do not reply.\n"

func wrapHTML(headerTitle, content string) string {
	return fmt.Sprintf(emailShell, headerTitle, content)
}

// SendPasswordResetEmail mails a one-hour reset link.
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): password reset to %s", toEmail)
		return nil
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.appBaseURL, resetToken)
	if s.debug {
		log.Printf("[DEBUG] password reset link for %s: %s", toEmail, resetLink)
	}

	content := fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>We received a request to reset your password for your BrainBlast! account.</p>
			<p>Click the button below to reset your password:</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Reset Password</a>
			</p>
			<p>Or copy and paste this link into your browser:</p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
			<p><strong>This link will expire in 1 hour.</strong></p>
			<p>If you didn't request a password reset, you can safely ignore this email.</p>
`, html.EscapeString(toName), resetLink, resetLink)

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset your password for your BrainBlast! account.

Click the link below to reset your password:
%s

This link will expire in 1 hour.

If you didn't request a password reset, you can safely ignore this email.
%s`, toName, resetLink, emailTextFooter)

	return s.sendEmail(ctx, toEmail, "Reset Your BrainBlast! Password", wrapHTML("Password Reset Request", content), textBody)
}

// SendWelcomeEmail greets a freshly registered parent account.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	content := fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Thank you for creating your BrainBlast! account! We're excited to help your children learn through games, practice, and daily challenges.</p>
			<p>Here's what you can do next:</p>
			<ul>
				<li>Add learners to your family account</li>
				<li>Track XP, levels, and streaks</li>
				<li>Watch skills climb the mastery tiers</li>
				<li>Let your children tackle daily challenges</li>
			</ul>
			<p style="text-align: center;">
				<a href="%s/login" class="button">Get Started</a>
			</p>
`, html.EscapeString(toName), s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Thank you for creating your BrainBlast! account! We're excited to help your children learn through games, practice, and daily challenges.

Here's what you can do next:
- Add learners to your family account
- Track XP, levels, and streaks
- Watch skills climb the mastery tiers
- Let your children tackle daily challenges

Get started: %s/login
%s`, toName, s.appBaseURL, emailTextFooter)

	return s.sendEmail(ctx, toEmail, "Welcome to BrainBlast!", wrapHTML("Welcome to BrainBlast!", content), textBody)
}

// DigestEntry is one learner's line in the weekly progress digest.
type DigestEntry struct {
	Name       string
	Level      int
	LevelTitle string
	WeeklyXP   int64
	StreakDays int
}

// SendWeeklyDigestEmail sends a parent a summary of each learner's week.
func (s *EmailService) SendWeeklyDigestEmail(ctx context.Context, toEmail, toName string, entries []DigestEntry) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): weekly digest to %s", toEmail)
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	var htmlRows, textRows strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&htmlRows,
			"<tr><td>%s</td><td>Level %d (%s)</td><td>%d XP</td><td>%d day streak</td></tr>\n",
			html.EscapeString(e.Name), e.Level, html.EscapeString(e.LevelTitle), e.WeeklyXP, e.StreakDays)
		fmt.Fprintf(&textRows, "- %s: level %d (%s), %d XP this week, %d day streak\n",
			e.Name, e.Level, e.LevelTitle, e.WeeklyXP, e.StreakDays)
	}

	content := fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Here is how your family did this week:</p>
			<table>%s</table>
`, html.EscapeString(toName), htmlRows.String())

	textBody := fmt.Sprintf(`Hi %s,

Here is how your family did this week:

%s%s`, toName, textRows.String(), emailTextFooter)

	return s.sendEmail(ctx, toEmail, "Your BrainBlast! Weekly Progress Digest", wrapHTML("Weekly Progress", content), textBody)
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
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}

	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
