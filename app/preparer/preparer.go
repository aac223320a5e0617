// Package preparer assembles application emails as raw MIME messages
// through a chain of steps: subject derivation, body templating, MIME
// encoding.
package preparer

import (
	"context"
	"fmt"
)

// Application carries everything needed to prepare one email: the chosen
// sender's profile fields and the vacancy's target, position, and optional
// subject template.
type Application struct {
	SenderEmail    string
	SenderName     string
	SenderUsername string
	SenderPhone    string

	Target          string
	Position        string
	SubjectOverride string
}

// Message is the mutable state threaded through the chain.
type Message struct {
	Application

	Subject  string
	BodyHTML string
	Raw      []byte
}

type EmailPreparer interface {
	Prepare(ctx context.Context, app Application) ([]byte, error)
}

type Step interface {
	Prepare(ctx context.Context, msg *Message) error
}

type Chain struct {
	steps []Step
}

// NewChain builds an email preparer chain from steps.
func NewChain(steps ...Step) *Chain {
	return &Chain{steps: steps}
}

// Prepare runs all steps and returns the final raw message.
func (c *Chain) Prepare(ctx context.Context, app Application) ([]byte, error) {
	msg := &Message{Application: app}

	for _, step := range c.steps {
		if err := step.Prepare(ctx, msg); err != nil {
			return nil, err
		}
	}

	if len(msg.Raw) == 0 {
		return nil, fmt.Errorf("prepared raw message is empty")
	}

	return msg.Raw, nil
}

// placeholders exposes the profile fields available to subject and body
// templates.
func (m *Message) placeholders() map[string]string {
	return map[string]string{
		"name":     m.SenderName,
		"username": m.SenderUsername,
		"position": m.Position,
		"phone":    m.SenderPhone,
	}
}
