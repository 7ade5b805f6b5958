package utils

import (
	"fmt"
	"html"
	"log"

	"quizhub/config"
	"quizhub/models"
	"quizhub/services/session"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailEnabled reports whether a SendGrid key is configured.
func EmailEnabled() bool {
	return config.AppConfig != nil && config.AppConfig.SendgridApiKey != ""
}

// SendEmail sends an HTML mail through SendGrid. Without an API key it only
// logs, so local setups work unchanged.
func SendEmail(toEmail, toName, subject, plainBody, htmlBody string) error {
	cfg := config.AppConfig
	if !EmailEnabled() {
		log.Printf("[EMAIL] SENDGRID_API_KEY not set, skipping %q to %s", subject, toEmail)
		return nil
	}

	from := mail.NewEmail(cfg.EmailSenderName, cfg.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)

	resp, err := sendgrid.NewSendClient(cfg.SendgridApiKey).Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending %q to %s: %v", subject, toEmail, err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("[EMAIL] SendGrid rejected %q to %s: %d %s", subject, toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}

	log.Printf("[EMAIL] Sent %q to %s", subject, toEmail)
	return nil
}

func getEmailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3A5F; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; }
			.content { padding: 32px 28px; color: #1F3A5F; line-height: 1.6; }
			.score { font-size: 36px; font-weight: bold; margin: 16px 0; }
			.footer { background-color: #F6F6F6; padding: 16px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">QuizHub</div>
		</div>
	</body>
	</html>`, html.EscapeString(title), bodyContent)
}

// CompletionEmail renders the result mail for a completed session.
func CompletionEmail(user models.User, quizName string, result session.CompletionResult) (subject, plain, body string) {
	subject = fmt.Sprintf("Your result for %s", quizName)
	plain = fmt.Sprintf("You finished %s with a score of %.0f%% (%d of %d correct).",
		quizName, result.Score, result.CorrectAnswers, result.TotalQuestions)
	content := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You finished <strong>%s</strong>.</p>
		<div class="score">%.0f%%</div>
		<p>%d of %d answered questions were correct.</p>`,
		html.EscapeString(user.Summary().DisplayName),
		html.EscapeString(quizName),
		result.Score,
		result.CorrectAnswers,
		result.TotalQuestions,
	)
	return subject, plain, getEmailTemplate("Quiz completed", content)
}

// SendCompletionEmail mails a completed session's result to its user. Users
// without an e-mail address are skipped.
func SendCompletionEmail(user models.User, quizName string, result session.CompletionResult) {
	if user.Email == "" {
		return
	}
	subject, plain, body := CompletionEmail(user, quizName, result)
	if err := SendEmail(user.Email, user.Summary().DisplayName, subject, plain, body); err != nil {
		log.Printf("[EMAIL] Completion mail for session %d failed: %v", result.SessionID, err)
	}
}
