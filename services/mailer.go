package services

// Mailer delivers outbound notification email. Best-effort: transport-level
// success is all the system asks for.
type Mailer interface {
	SendPasswordReset(toEmail, resetLink string) error
}
