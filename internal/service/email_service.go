package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"familytracker/internal/models"
	"familytracker/internal/utils"
)

// EmailService delivers invitation and digest emails via Amazon SES. It is
// constructed once at startup and injected into the services that need it;
// nothing references it as ambient global state.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			appBaseURL: appBaseURL,
			enabled:    false,
			debug:      debug,
		}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendInvitationEmail sends an invitation email carrying the join link and
// returns the provider message ID.
func (s *EmailService) SendInvitationEmail(ctx context.Context, recipientEmail, senderName, familyName, token, inviteURL string, expiryDays int) (string, error) {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): invitation to %s", recipientEmail)
		return "", nil
	}

	sender := senderName
	if sender == "" {
		sender = "A family member"
	}

	subject := fmt.Sprintf("%s invited you to join %s on FamilyTracker", sender, familyName)

	htmlBody := fmt.Sprintf(`
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
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>You're Invited!</h1>
		</div>
		<div class="content">
			<p>Hi,</p>
			<p><strong>%s</strong> has invited you to join the <strong>%s</strong> family on FamilyTracker, so you can log and share household expenses together.</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Accept Invitation</a>
			</p>
			<p>Or copy and paste this link into your browser:</p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
			<p><strong>This invitation will expire in %d days.</strong></p>
			<p>If you weren't expecting this invitation, you can safely ignore this email.</p>
		</div>
		<div class="footer">
			<p>This is an automated email from FamilyTracker. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, sender, familyName, inviteURL, inviteURL, expiryDays)

	textBody := fmt.Sprintf(`Hi,

%s has invited you to join the %s family on FamilyTracker.

Accept the invitation: %s

This invitation will expire in %d days.

If you weren't expecting this invitation, you can safely ignore this email.

---
This is an automated email from FamilyTracker. Please do not reply.
`, sender, familyName, inviteURL, expiryDays)

	return s.sendEmail(ctx, recipientEmail, subject, htmlBody, textBody)
}

// SendMonthlyDigestEmail renders and sends the monthly spending summary to a
// single recipient and returns the provider message ID.
func (s *EmailService) SendMonthlyDigestEmail(ctx context.Context, recipientEmail, familyName, monthName string, report *models.DigestReport) (string, error) {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): digest to %s", recipientEmail)
		return "", nil
	}

	subject := fmt.Sprintf("Your %s %d Family Expense Summary - %s",
		monthName, report.Year, utils.FormatCents(report.TotalSpent))

	htmlBody := s.renderDigestHTML(familyName, monthName, report)
	textBody := s.renderDigestText(familyName, monthName, report)

	return s.sendEmail(ctx, recipientEmail, subject, htmlBody, textBody)
}

func (s *EmailService) renderDigestHTML(familyName, monthName string, report *models.DigestReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.total { font-size: 28px; font-weight: bold; text-align: center; margin: 10px 0; }
		.section { margin-top: 25px; }
		table { width: 100%%; border-collapse: collapse; }
		td, th { padding: 8px; border-bottom: 1px solid #ddd; text-align: left; }
		td.num { text-align: right; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s Expense Summary</h1>
			<p>%s %d</p>
		</div>
		<div class="content">
			<div class="total">%s</div>
`, familyName, monthName, report.Year, utils.FormatCents(report.TotalSpent))

	if report.PreviousMonthTotal != nil {
		prev := *report.PreviousMonthTotal
		change := float64(report.TotalSpent-prev) / float64(prev) * 100
		fmt.Fprintf(&b, `			<p style="text-align: center;">%+.0f%% vs last month (%s)</p>
`, change, utils.FormatCents(prev))
	}

	if len(report.Categories) > 0 {
		b.WriteString(`			<div class="section"><h3>Spending by Category</h3><table>` + "\n")
		for _, c := range report.Categories {
			fmt.Fprintf(&b, `				<tr><td>%s</td><td class="num">%s</td><td class="num">%.1f%%</td></tr>
`, c.Category, utils.FormatCents(c.Amount), c.Percentage)
		}
		b.WriteString("			</table></div>\n")
	}

	if len(report.Contributors) > 0 {
		b.WriteString(`			<div class="section"><h3>Who Spent What</h3><table>` + "\n")
		for _, c := range report.Contributors {
			fmt.Fprintf(&b, `				<tr><td>%s</td><td class="num">%s</td><td class="num">%.1f%%</td></tr>
`, c.UserName, utils.FormatCents(c.TotalSpent), c.Percentage)
		}
		b.WriteString("			</table></div>\n")
	}

	if len(report.NotableExpenses) > 0 {
		b.WriteString(`			<div class="section"><h3>Notable Expenses</h3><table>` + "\n")
		for _, e := range report.NotableExpenses {
			fmt.Fprintf(&b, `				<tr><td>%s</td><td>%s</td><td class="num">%s</td></tr>
`, e.Date, e.Description, utils.FormatCents(e.Amount))
		}
		b.WriteString("			</table></div>\n")
	}

	fmt.Fprintf(&b, `			<p style="text-align: center; margin-top: 30px;"><a href="%s">Open FamilyTracker</a></p>
		</div>
		<div class="footer">
			<p>This is an automated email from FamilyTracker. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, s.appBaseURL)

	return b.String()
}

func (s *EmailService) renderDigestText(familyName, monthName string, report *models.DigestReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Expense Summary - %s %d\n\n", familyName, monthName, report.Year)
	fmt.Fprintf(&b, "Total spent: %s\n", utils.FormatCents(report.TotalSpent))

	if report.PreviousMonthTotal != nil {
		prev := *report.PreviousMonthTotal
		change := float64(report.TotalSpent-prev) / float64(prev) * 100
		fmt.Fprintf(&b, "Change vs last month: %+.0f%% (%s)\n", change, utils.FormatCents(prev))
	}

	if len(report.Categories) > 0 {
		b.WriteString("\nSpending by category:\n")
		for _, c := range report.Categories {
			fmt.Fprintf(&b, "- %s: %s (%.1f%%)\n", c.Category, utils.FormatCents(c.Amount), c.Percentage)
		}
	}

	if len(report.Contributors) > 0 {
		b.WriteString("\nWho spent what:\n")
		for _, c := range report.Contributors {
			fmt.Fprintf(&b, "- %s: %s (%.1f%%)\n", c.UserName, utils.FormatCents(c.TotalSpent), c.Percentage)
		}
	}

	if len(report.NotableExpenses) > 0 {
		b.WriteString("\nNotable expenses:\n")
		for _, e := range report.NotableExpenses {
			fmt.Fprintf(&b, "- %s %s: %s\n", e.Date, e.Description, utils.FormatCents(e.Amount))
		}
	}

	fmt.Fprintf(&b, "\nOpen FamilyTracker: %s\n", s.appBaseURL)
	b.WriteString("\n---\nThis is an automated email from FamilyTracker. Please do not reply.\n")

	return b.String()
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) (string, error) {
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
		return "", fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}

	if s.debug {
		log.Printf("[DEBUG] SES message id: %s", messageID)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)

	return messageID, nil
}
