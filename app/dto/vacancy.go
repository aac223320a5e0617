package dto

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-autoapply/app/entity"
)

var (
	ErrNoTargets       = errors.New("email must be a non-empty list of target addresses")
	ErrMissingPosition = errors.New("position is required")
)

// Gender values arrive from scraped postings, so the wire field is free
// text; synonym sets mirror what producers actually emit.
var (
	femaleKeywords = map[string]struct{}{"female": {}, "perempuan": {}, "wanita": {}}
	maleKeywords   = map[string]struct{}{"male": {}, "men": {}, "laki-laki": {}, "pria": {}}
)

// VacancyEvent is the queue payload describing one job opening.
type VacancyEvent struct {
	IsJobVacancy    bool     `json:"is_job_vacancy"`
	TargetEmails    []string `json:"email"`
	Position        string   `json:"position"`
	SubjectOverride string   `json:"subject_email"`
	GenderRequired  string   `json:"gender_required"`
}

// Decode parses a raw payload and normalizes it. Validation is left to the
// caller so a non-vacancy event can still be decoded and acked as a no-op.
func Decode(data []byte) (VacancyEvent, error) {
	var ev VacancyEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return VacancyEvent{}, err
	}
	ev.Normalize()
	return ev, nil
}

// FromEchoContext binds and normalizes an event from an HTTP request.
func FromEchoContext(ctx echo.Context) (VacancyEvent, error) {
	var ev VacancyEvent
	if err := ctx.Bind(&ev); err != nil {
		return VacancyEvent{}, err
	}
	ev.Normalize()
	return ev, nil
}

// Normalize lowercases and dedupes target addresses preserving payload
// order, trims the position and subject, and folds the gender field onto
// the male/female/any enum.
func (e *VacancyEvent) Normalize() {
	seen := make(map[string]struct{}, len(e.TargetEmails))
	targets := e.TargetEmails[:0]
	for _, raw := range e.TargetEmails {
		addr := strings.ToLower(strings.TrimSpace(raw))
		if addr == "" {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		targets = append(targets, addr)
	}
	e.TargetEmails = targets

	e.Position = strings.Join(strings.Fields(e.Position), " ")
	e.SubjectOverride = strings.TrimSpace(e.SubjectOverride)
	e.GenderRequired = strings.ToLower(strings.TrimSpace(e.GenderRequired))
}

// Validate checks required fields for a dispatchable event. Events with
// IsJobVacancy == false are valid no-ops and skip these checks.
func (e *VacancyEvent) Validate() error {
	if !e.IsJobVacancy {
		return nil
	}
	if len(e.TargetEmails) == 0 {
		return ErrNoTargets
	}
	if e.Position == "" {
		return ErrMissingPosition
	}
	return nil
}

// Gender maps the normalized wire value onto the enum. Unknown values fall
// open to GenderAny, matching how producers leave the field blank when a
// posting has no stated requirement.
func (e *VacancyEvent) Gender() entity.Gender {
	if _, ok := femaleKeywords[e.GenderRequired]; ok {
		return entity.GenderFemale
	}
	if _, ok := maleKeywords[e.GenderRequired]; ok {
		return entity.GenderMale
	}
	return entity.GenderAny
}
