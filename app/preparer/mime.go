package preparer

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// MIMEStep encodes the prepared message as a raw multipart/mixed MIME
// document: one HTML part plus, when a CV directory is configured, the
// sender's CV as a PDF attachment (<cvDir>/CV_<username>.pdf).
type MIMEStep struct {
	cvDir string
}

// NewMIMEStep constructs the MIME encoding step.
func NewMIMEStep(cvDir string) *MIMEStep {
	return &MIMEStep{cvDir: cvDir}
}

// Prepare sets msg.Raw.
func (s *MIMEStep) Prepare(_ context.Context, msg *Message) error {
	if strings.TrimSpace(msg.SenderEmail) == "" {
		return fmt.Errorf("sender email is required")
	}
	if strings.TrimSpace(msg.Target) == "" {
		return fmt.Errorf("target is required")
	}
	if msg.Subject == "" {
		return fmt.Errorf("subject is required")
	}

	var b strings.Builder
	writer := multipart.NewWriter(&b)

	displayName := msg.SenderName
	if msg.SenderUsername != "" {
		displayName = fmt.Sprintf("%s (%s)", msg.SenderName, msg.SenderUsername)
	}

	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", displayName, msg.SenderEmail))
	b.WriteString(fmt.Sprintf("To: %s\r\n", msg.Target))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", writer.Boundary()))
	b.WriteString("\r\n")

	body, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/html; charset=UTF-8"},
		"Content-Transfer-Encoding": {"7bit"},
	})
	if err != nil {
		return fmt.Errorf("create body part: %w", err)
	}
	if _, err := body.Write([]byte(msg.BodyHTML)); err != nil {
		return fmt.Errorf("write body part: %w", err)
	}

	if s.cvDir != "" {
		if err := s.attachCV(writer, msg.SenderUsername); err != nil {
			return err
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	msg.Raw = []byte(b.String())
	return nil
}

func (s *MIMEStep) attachCV(writer *multipart.Writer, username string) error {
	filename := fmt.Sprintf("CV_%s.pdf", username)
	data, err := os.ReadFile(filepath.Join(s.cvDir, filename))
	if err != nil {
		return fmt.Errorf("read cv attachment: %w", err)
	}

	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/pdf"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", filename)},
	})
	if err != nil {
		return fmt.Errorf("create attachment part: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	// RFC 2045 line length limit.
	for len(encoded) > 76 {
		if _, err := part.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return fmt.Errorf("write attachment: %w", err)
		}
		encoded = encoded[76:]
	}
	if _, err := part.Write([]byte(encoded)); err != nil {
		return fmt.Errorf("write attachment: %w", err)
	}
	return nil
}
