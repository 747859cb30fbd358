package email

// Email is a single outgoing message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// VerificationData feeds the account-verification template.
type VerificationData struct {
	Email     string
	Fullname  string
	VerifyURL string
}

// Config holds the SMTP transport settings.
type Config struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Sender dispatches email. Implementations are stateless and safe to
// share across requests.
type Sender interface {
	Send(email *Email) error
	SendVerification(to string, data VerificationData) error
}
