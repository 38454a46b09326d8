package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// SMTPMailer sends transactional email over plain-auth SMTP from the fixed
// sender identity configured in the environment. When SMTP is not configured
// (local development) it logs the message instead of sending.
type SMTPMailer struct{}

func (SMTPMailer) SendPasswordReset(recipientEmail, resetLink string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")
	if fromName == "" {
		fromName = "LitFund Capital"
	}

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		logrus.WithFields(logrus.Fields{
			"to":   recipientEmail,
			"link": resetLink,
		}).Info("[MOCK EMAIL] password reset")
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	resetLink = safe(resetLink)
	if !(strings.HasPrefix(resetLink, "http://") || strings.HasPrefix(resetLink, "https://")) {
		resetLink = "https://" + strings.TrimLeft(resetLink, "/")
	}

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := "Reset your admin password"
	boundary := "----=_RESET_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"A password reset was requested for your admin account.\n\n"+
			"Use the link below to set a new password. The link expires in 1 hour:\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		resetLink,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Password reset</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
.btn { display:inline-block; padding:12px 20px; background:#0b3d91; color:#fff; text-decoration:none; border-radius:6px; margin-top:16px; }
.muted { color:#667; font-size:13px; margin-top:16px; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>Reset your password</h2>
    <p>A password reset was requested for your admin account.</p>
    <p>Click the button below to set a new password. The link expires in 1 hour.</p>
    <a class="btn" href="%s" target="_blank">Set a new password</a>
    <p class="muted">If you did not request this, you can ignore this email.</p>
  </div>
</div>
</body>
</html>`,
		resetLink,
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipientEmail))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(sb.String())); err != nil {
		logrus.WithError(err).WithField("to", recipientEmail).Error("failed to send reset email")
		return err
	}

	logrus.WithField("to", recipientEmail).Info("reset email sent")
	return nil
}
