// Package eligibility decides which sender accounts may apply to a vacancy.
package eligibility

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-autoapply/app/entity"
)

// RuleSet is one account's blocked-position configuration with regex
// patterns compiled once at load time.
type RuleSet struct {
	keywords []string
	patterns []*regexp.Regexp
}

// Candidate is a sender account ready for matching: profile attached and
// block rules compiled.
type Candidate struct {
	Account entity.Account
	Profile entity.Profile
	Rules   *RuleSet
}

// Compile builds a candidate from a repository record. A pattern that fails
// to compile is skipped with a warning; the account keeps its remaining
// rules.
func Compile(rec entity.AccountRecord, log *logrus.Logger) Candidate {
	rules := &RuleSet{}

	for _, kw := range rec.Rules.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			rules.keywords = append(rules.keywords, kw)
		}
	}

	for _, pattern := range rec.Rules.RegexPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			log.WithFields(logrus.Fields{
				"account_id": rec.Account.ID,
				"pattern":    pattern,
			}).WithError(err).Warn("invalid blocked-position pattern skipped")
			continue
		}
		rules.patterns = append(rules.patterns, re)
	}

	return Candidate{Account: rec.Account, Profile: rec.Profile, Rules: rules}
}

// CompileAll compiles a pool of records preserving their order.
func CompileAll(recs []entity.AccountRecord, log *logrus.Logger) []Candidate {
	candidates := make([]Candidate, 0, len(recs))
	for _, rec := range recs {
		candidates = append(candidates, Compile(rec, log))
	}
	return candidates
}

// Blocks reports whether the position hits any keyword or pattern. Keywords
// match as case-insensitive substrings; patterns run against the lowercased,
// whitespace-collapsed position.
func (r *RuleSet) Blocks(position string) bool {
	normalized := strings.ToLower(strings.Join(strings.Fields(position), " "))

	for _, kw := range r.keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	for _, re := range r.patterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}
