package entity

// Gender classifies both account profiles and vacancy requirements.
// GenderAny is only valid on a vacancy.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAny    Gender = "any"
)

// Account is a sender mailbox. AppPassword is an application-specific
// credential passed through to the mail transport and must never be logged.
type Account struct {
	ID          int64
	Email       string
	AppPassword string
	IsActive    bool
}

// Profile personalizes outgoing applications for one account.
type Profile struct {
	AccountID int64
	Name      string
	Username  string
	Gender    Gender
	Phone     string
}

// BlockRules holds the raw blocked-job-position configuration for one
// account, as stored in the account_data JSON column.
type BlockRules struct {
	Keywords      []string `json:"keywords"`
	RegexPatterns []string `json:"regex_patterns"`
}

// AccountRecord is one active account joined with its profile and rules.
type AccountRecord struct {
	Account Account
	Profile Profile
	Rules   BlockRules
}
