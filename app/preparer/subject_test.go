package preparer

import (
	"context"
	"testing"
)

func subjectFor(t *testing.T, app Application) string {
	t.Helper()
	msg := &Message{Application: app}
	if err := NewSubjectStep().Prepare(context.Background(), msg); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return msg.Subject
}

func TestSubjectDefault(t *testing.T) {
	t.Parallel()

	got := subjectFor(t, Application{SenderName: "Rani", Position: "Software Engineer"})
	if got != "Software Engineer - Rani" {
		t.Fatalf("unexpected subject: %q", got)
	}
}

func TestSubjectDefaultWithoutPosition(t *testing.T) {
	t.Parallel()

	got := subjectFor(t, Application{SenderName: "Rani"})
	if got != "Job Application - Rani" {
		t.Fatalf("unexpected subject: %q", got)
	}
}

func TestSubjectOverridePlaceholders(t *testing.T) {
	t.Parallel()

	got := subjectFor(t, Application{
		SenderName:      "Rani",
		Position:        "Backend Developer",
		SubjectOverride: "Lowongan_{{name}}_{{position}}_{{domisili}}",
	})
	if got != "Lowongan_Rani_Backend Developer" {
		t.Fatalf("unexpected subject: %q", got)
	}
}

func TestSubjectOverrideAllPlaceholdersUnknown(t *testing.T) {
	t.Parallel()

	got := subjectFor(t, Application{
		SenderName:      "Rani",
		Position:        "Backend Developer",
		SubjectOverride: "{{domisili}}-{{usia}}",
	})
	if got != "Backend Developer - Rani" {
		t.Fatalf("expected fallback to default subject, got %q", got)
	}
}

func TestSubjectRejectsHeaderInjection(t *testing.T) {
	t.Parallel()

	msg := &Message{Application: Application{
		SenderName:      "Rani",
		SubjectOverride: "hello\r\nBcc: everyone@acme.com",
	}}
	if err := NewSubjectStep().Prepare(context.Background(), msg); err == nil {
		t.Fatalf("expected error for CRLF in subject")
	}
}
