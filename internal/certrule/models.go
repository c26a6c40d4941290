// Package certrule holds the certification rule registry: which
// certifications exist, how long they stay valid, and how far ahead of expiry
// holders should be warned.
package certrule

import (
	"time"

	"certtrack/internal/eligibility"
	id "certtrack/pkg/domain"
)

// Rule describes one certification requirement type. Level and SubFieldCode
// are optional refinements; Label is the display code used when neither the
// code nor its refinements are present.
type Rule struct {
	ID id.RuleID

	CertificationCode string
	Level             *int
	SubFieldCode      string
	Label             string

	// ValidityMonths is how long a certificate stays valid from its issue
	// date. Zero means the certificate never expires.
	ValidityMonths int

	// ReminderMonths is how far before expiry the holder enters the warning
	// window.
	ReminderMonths int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Windows are the derived obligation dates for one issued certificate.
type Windows struct {
	ValidUntil   *time.Time
	DueDate      *time.Time
	ReminderDate *time.Time
}

// Windows derives the obligation dates for a certificate issued at the given
// time. A rule without a validity period yields no dates at all.
func (r Rule) Windows(issuedAt time.Time) Windows {
	if r.ValidityMonths <= 0 {
		return Windows{}
	}

	validUntil := issuedAt.AddDate(0, r.ValidityMonths, 0)
	reminder := validUntil.AddDate(0, -r.ReminderMonths, 0)

	due := validUntil
	return Windows{
		ValidUntil:   &validUntil,
		DueDate:      &due,
		ReminderDate: &reminder,
	}
}

// Ref maps the rule onto the classification core's rule reference.
func (r Rule) Ref() eligibility.RuleRef {
	return eligibility.RuleRef{
		CertificationCode: r.CertificationCode,
		Level:             r.Level,
		SubFieldCode:      r.SubFieldCode,
		Label:             r.Label,
	}
}

// RuleCode returns the composed display code for this rule.
func (r Rule) RuleCode() string {
	return r.Ref().RuleCode()
}
