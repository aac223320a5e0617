package preparer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	placeholderRe   = regexp.MustCompile(`\{\{(\w+)\}\}`)
	underscoreRunRe = regexp.MustCompile(`_{2,}`)
	dashRunRe       = regexp.MustCompile(`-{2,}`)
	spaceRunRe      = regexp.MustCompile(`\s{2,}`)
	edgeSepRe       = regexp.MustCompile(`^[_\-\s]+|[_\-\s]+$`)
)

// SubjectStep derives the subject line. A subject override from the event
// may carry {{placeholder}} tokens filled from the sender's profile;
// without an override the subject defaults to "<position> - <name>".
type SubjectStep struct{}

// NewSubjectStep constructs the subject derivation step.
func NewSubjectStep() *SubjectStep {
	return &SubjectStep{}
}

// Prepare sets msg.Subject.
func (s *SubjectStep) Prepare(_ context.Context, msg *Message) error {
	subject := msg.SubjectOverride
	if strings.ContainsAny(subject, "\r\n") {
		return fmt.Errorf("subject contains invalid characters")
	}
	if subject == "" {
		subject = defaultSubject(msg)
	} else {
		subject = cleanSubject(subject, msg.placeholders())
		if subject == "" {
			subject = defaultSubject(msg)
		}
	}

	msg.Subject = subject
	return nil
}

func defaultSubject(msg *Message) string {
	if msg.Position != "" {
		return fmt.Sprintf("%s - %s", msg.Position, msg.SenderName)
	}
	return fmt.Sprintf("Job Application - %s", msg.SenderName)
}

// cleanSubject fills known placeholders, drops unknown ones, and collapses
// the separator runs that removal leaves behind.
func cleanSubject(subject string, data map[string]string) string {
	cleaned := placeholderRe.ReplaceAllStringFunc(subject, func(token string) string {
		key := placeholderRe.FindStringSubmatch(token)[1]
		return data[key]
	})

	cleaned = underscoreRunRe.ReplaceAllString(cleaned, "_")
	cleaned = dashRunRe.ReplaceAllString(cleaned, "-")
	cleaned = spaceRunRe.ReplaceAllString(cleaned, " ")
	cleaned = edgeSepRe.ReplaceAllString(cleaned, "")

	return strings.TrimSpace(cleaned)
}
