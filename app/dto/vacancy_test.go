package dto

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-autoapply/app/entity"
)

func TestDecodeNormalizes(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"is_job_vacancy": true,
		"email": [" HR@Acme.com ", "hr@acme.com", "", "jobs@acme.com"],
		"position": "  Software   Engineer ",
		"subject_email": null,
		"gender_required": "Female",
		"unknown_field": 42
	}`)

	ev, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(ev.TargetEmails) != 2 || ev.TargetEmails[0] != "hr@acme.com" || ev.TargetEmails[1] != "jobs@acme.com" {
		t.Fatalf("unexpected targets: %v", ev.TargetEmails)
	}
	if ev.Position != "Software Engineer" {
		t.Fatalf("unexpected position: %q", ev.Position)
	}
	if ev.Gender() != entity.GenderFemale {
		t.Fatalf("expected female, got %v", ev.Gender())
	}
	if err := ev.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte(`{"email": [`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   VacancyEvent
		err  error
	}{
		{name: "no-op not validated", ev: VacancyEvent{IsJobVacancy: false}, err: nil},
		{name: "missing targets", ev: VacancyEvent{IsJobVacancy: true, Position: "Engineer"}, err: ErrNoTargets},
		{name: "missing position", ev: VacancyEvent{IsJobVacancy: true, TargetEmails: []string{"a@b.com"}}, err: ErrMissingPosition},
		{name: "valid", ev: VacancyEvent{IsJobVacancy: true, TargetEmails: []string{"a@b.com"}, Position: "Engineer"}, err: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := tc.ev.Validate(); err != tc.err {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

func TestGenderSynonyms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want entity.Gender
	}{
		{"female", entity.GenderFemale},
		{"wanita", entity.GenderFemale},
		{"perempuan", entity.GenderFemale},
		{"male", entity.GenderMale},
		{"pria", entity.GenderMale},
		{"laki-laki", entity.GenderMale},
		{"any", entity.GenderAny},
		{"", entity.GenderAny},
		{"unisex", entity.GenderAny},
	}

	for _, tc := range tests {
		ev := VacancyEvent{GenderRequired: tc.raw}
		ev.Normalize()
		if got := ev.Gender(); got != tc.want {
			t.Fatalf("gender %q: expected %v, got %v", tc.raw, tc.want, got)
		}
	}
}

func TestFromEchoContext(t *testing.T) {
	t.Parallel()

	e := echo.New()
	body := `{"is_job_vacancy":true,"email":[" HR@acme.com "],"position":"Backend Developer","gender_required":"ANY"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	ev, err := FromEchoContext(ctx)
	if err != nil {
		t.Fatalf("FromEchoContext: %v", err)
	}
	if ev.TargetEmails[0] != "hr@acme.com" || ev.GenderRequired != "any" {
		t.Fatalf("unexpected normalization: %+v", ev)
	}
}
