package email

import (
	"bytes"
	"html/template"
)

// verifyTemplate is the account-verification mail. When VerifyURL is
// empty (resend without a token) the button is omitted.
const verifyTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 24px; background-color: #f4f4f4;">
  <div style="max-width: 560px; margin: 0 auto; background-color: #ffffff; padding: 32px; border-radius: 8px;">
    <h2 style="color: #333333;">Verify your account</h2>
    <p>Hello {{.Fullname}},</p>
    <p>Thank you for registering with the email address <b>{{.Email}}</b>.</p>
    {{if .VerifyURL}}
    <p>Please confirm your account by clicking the button below. The link is valid for one hour.</p>
    <p style="text-align: center;">
      <a href="{{.VerifyURL}}" style="display: inline-block; padding: 12px 24px; background-color: #2d7ff9; color: #ffffff; text-decoration: none; border-radius: 4px;">Verify Account</a>
    </p>
    {{end}}
    <p style="color: #888888; font-size: 12px;">If you did not create this account, you can ignore this message.</p>
  </div>
</body>
</html>`

var verifyTpl = template.Must(template.New("verify").Parse(verifyTemplate))

// RenderVerification renders the verification mail body.
func RenderVerification(data VerificationData) (string, error) {
	var buf bytes.Buffer
	if err := verifyTpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
