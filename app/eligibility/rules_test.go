package eligibility

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-autoapply/app/entity"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func compileRules(t *testing.T, keywords, patterns []string) *RuleSet {
	t.Helper()
	rec := entity.AccountRecord{
		Rules: entity.BlockRules{Keywords: keywords, RegexPatterns: patterns},
	}
	return Compile(rec, testLogger()).Rules
}

func TestRuleSetKeywordSubstring(t *testing.T) {
	t.Parallel()

	rules := compileRules(t, []string{"intern"}, nil)
	if !rules.Blocks("Backend Intern") {
		t.Fatalf("expected keyword to block position")
	}
	if !rules.Blocks("INTERNSHIP Program") {
		t.Fatalf("expected case-insensitive substring match")
	}
	if rules.Blocks("Backend Engineer") {
		t.Fatalf("did not expect block")
	}
}

func TestRuleSetRegexAnchors(t *testing.T) {
	t.Parallel()

	rules := compileRules(t, nil, []string{"(?i)^sales"})
	if !rules.Blocks("Sales Manager") {
		t.Fatalf("expected anchored pattern to block leading match")
	}
	if rules.Blocks("Manager of Sales") {
		t.Fatalf("anchored pattern must not block mid-string match")
	}
}

func TestRuleSetNormalizesPosition(t *testing.T) {
	t.Parallel()

	rules := compileRules(t, nil, []string{"^sales manager$"})
	if !rules.Blocks("  Sales   MANAGER ") {
		t.Fatalf("expected whitespace-collapsed lowercase match")
	}
}

func TestCompileSkipsInvalidPattern(t *testing.T) {
	t.Parallel()

	rules := compileRules(t, []string{"guru"}, []string{"([unclosed", ".*medis.*"})
	if !rules.Blocks("Guru Bahasa") {
		t.Fatalf("keyword rule must survive a broken pattern")
	}
	if !rules.Blocks("Perawat Medis") {
		t.Fatalf("valid pattern must survive a broken sibling")
	}
	if rules.Blocks("Driver") {
		t.Fatalf("did not expect block")
	}
}
