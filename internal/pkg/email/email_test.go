package email

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
)

func TestSendWelcomeEmail_NotConfiguredLogsOnly(t *testing.T) {
	var buf bytes.Buffer
	svc := NewEmailService(SMTPConfig{}, zerolog.New(&buf))
	svc.send = func(string, []byte) error {
		t.Fatal("send must not be called without credentials")
		return nil
	}

	require.NoError(t, svc.SendWelcomeEmail("coach@example.com", "Karim", models.RoleCoach))
	assert.Contains(t, buf.String(), "welcome email not sent")
	assert.Contains(t, buf.String(), "coach@example.com")
}

func TestSendWelcomeEmail_BuildsMessage(t *testing.T) {
	svc := NewEmailService(SMTPConfig{
		Host: "smtp.example.com", Port: 587, Username: "u", Password: "p",
		FromName: "Academy", FromEmail: "noreply@example.com", BaseURL: "https://academy.example.com",
	}, zerolog.Nop())

	var gotTo string
	var gotMsg []byte
	svc.send = func(to string, msg []byte) error {
		gotTo, gotMsg = to, msg
		return nil
	}

	require.NoError(t, svc.SendWelcomeEmail("parent@example.com", "Youssef <Tazi>", models.RoleParent))
	assert.Equal(t, "parent@example.com", gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "From: Academy <noreply@example.com>\r\n")
	assert.Contains(t, msg, "To: parent@example.com\r\n")
	assert.Contains(t, msg, "Youssef &lt;Tazi&gt;")
	assert.Contains(t, msg, "parent account")
	assert.Contains(t, msg, "https://academy.example.com/login")
}
