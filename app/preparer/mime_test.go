package preparer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChainPreparesFullMessage(t *testing.T) {
	t.Parallel()

	chain := NewChain(
		NewSubjectStep(),
		NewBodyStep(NewTemplateStore("")),
		NewMIMEStep(""),
	)

	raw, err := chain.Prepare(context.Background(), Application{
		SenderEmail:    "rani@senders.test",
		SenderName:     "Rani",
		SenderUsername: "rani",
		SenderPhone:    "+62812",
		Target:         "hr@acme.com",
		Position:       "Software Engineer",
	})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	text := string(raw)
	for _, want := range []string{
		"From: Rani (rani) <rani@senders.test>",
		"To: hr@acme.com",
		"Subject: Software Engineer - Rani",
		"Content-Type: multipart/mixed",
		"text/html; charset=UTF-8",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("raw message missing %q:\n%s", want, text)
		}
	}
}

func TestMIMEStepAttachesCV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "CV_rani.pdf"), []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatalf("write cv: %v", err)
	}

	msg := &Message{Application: Application{
		SenderEmail:    "rani@senders.test",
		SenderName:     "Rani",
		SenderUsername: "rani",
		Target:         "hr@acme.com",
	}}
	msg.Subject = "Application"
	msg.BodyHTML = "<p>body</p>"

	if err := NewMIMEStep(dir).Prepare(context.Background(), msg); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	text := string(msg.Raw)
	if !strings.Contains(text, `attachment; filename="CV_rani.pdf"`) {
		t.Fatalf("attachment header missing:\n%s", text)
	}
	if !strings.Contains(text, "application/pdf") {
		t.Fatalf("attachment content type missing:\n%s", text)
	}
}

func TestMIMEStepMissingCVFails(t *testing.T) {
	t.Parallel()

	msg := &Message{Application: Application{
		SenderEmail:    "budi@senders.test",
		SenderName:     "Budi",
		SenderUsername: "budi",
		Target:         "hr@acme.com",
	}}
	msg.Subject = "Application"
	msg.BodyHTML = "<p>body</p>"

	if err := NewMIMEStep(t.TempDir()).Prepare(context.Background(), msg); err == nil {
		t.Fatalf("expected error for missing CV")
	}
}
