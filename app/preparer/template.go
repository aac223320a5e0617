package preparer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// defaultBody is used when an account has no template file of its own.
const defaultBody = `<html><body>
<p>Dear Hiring Manager,</p>
<p>I am writing to apply for the <b>{{position}}</b> position. Please find my
CV attached for your consideration.</p>
<p>Best regards,<br>{{name}}<br>{{phone}}</p>
</body></html>`

// TemplateStore loads per-account HTML body templates from disk and caches
// them after first read. Templates are keyed by the account's username:
// <dir>/<username>.html.
type TemplateStore struct {
	dir   string
	mu    sync.Mutex
	cache map[string]string
}

// NewTemplateStore constructs a store rooted at dir. An empty dir means
// every account uses the built-in body.
func NewTemplateStore(dir string) *TemplateStore {
	return &TemplateStore{dir: dir, cache: make(map[string]string)}
}

// body returns the template for a username, falling back to the default
// when the store has no directory or the file does not exist.
func (s *TemplateStore) body(username string) (string, error) {
	if s.dir == "" {
		return defaultBody, nil
	}

	s.mu.Lock()
	cached, ok := s.cache[username]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(s.dir, username+".html")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultBody, nil
	}
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", path, err)
	}

	s.mu.Lock()
	s.cache[username] = string(data)
	s.mu.Unlock()
	return string(data), nil
}

// BodyStep renders the HTML body for the chosen sender.
type BodyStep struct {
	store *TemplateStore
}

// NewBodyStep constructs the body rendering step.
func NewBodyStep(store *TemplateStore) *BodyStep {
	return &BodyStep{store: store}
}

// Prepare sets msg.BodyHTML from the sender's template.
func (s *BodyStep) Prepare(_ context.Context, msg *Message) error {
	tpl, err := s.store.body(msg.SenderUsername)
	if err != nil {
		return err
	}
	msg.BodyHTML = renderTemplate(tpl, msg.placeholders())
	return nil
}

func renderTemplate(tpl string, data map[string]string) string {
	body := tpl
	for key, value := range data {
		body = strings.ReplaceAll(body, "{{"+key+"}}", value)
	}
	return body
}
