package eligibility

import (
	"time"

	dErrors "certtrack/pkg/domain-errors"
)

// Classify evaluates a requirement against the supplied clock and returns its
// status, deadline, and display rule code.
//
// Status derivation is a priority chain; the first matching rule wins:
//
//  1. no certificate and no due date        -> NOT_YET_CERTIFIED
//  2. certificate awaiting validation       -> PENDING
//  3. contradictory certificate dates       -> INVALID
//  4. validity lapsed                       -> EXPIRED
//  5. inside reminder window or past due    -> DUE
//  6. otherwise                             -> ACTIVE
//
// The deadline is the first non-nil of (due date, valid-until, reminder date).
// Missing optional fields degrade to placeholders rather than failing; the
// only error is a caller contract violation (missing employee identity).
func Classify(req Requirement, now time.Time) (Classification, error) {
	if req.EmployeeID == "" {
		return Classification{}, dErrors.New(dErrors.CodeInvalidInput, "requirement is missing employee id")
	}

	result := Classification{
		Deadline: deadlineOf(req),
		RuleCode: req.Rule.RuleCode(),
	}
	result.Status = deriveStatus(req, now)
	return result, nil
}

func deriveStatus(req Requirement, now time.Time) Status {
	cert := req.Certificate

	// Rule 1: nothing obtained and no obligation window started.
	if cert == nil && req.DueDate == nil {
		return StatusNotYetCertified
	}

	if cert != nil {
		// Rule 2: submitted but not yet validated.
		if cert.PendingValidation {
			return StatusPending
		}

		// Rule 3: a certificate that expires before it was issued is data
		// corruption, not a renewal problem.
		if cert.ValidUntil != nil && cert.IssuedAt != nil && cert.ValidUntil.Before(*cert.IssuedAt) {
			return StatusInvalid
		}

		// Rule 4: validity lapsed, regardless of due/reminder values.
		if cert.ValidUntil != nil && cert.ValidUntil.Before(now) {
			return StatusExpired
		}
	}

	// Rule 5: the due date passed without a completed renewal, or now sits
	// inside the reminder window.
	if req.DueDate != nil && !now.Before(*req.DueDate) {
		return StatusDue
	}
	if req.ReminderDate != nil && !now.Before(*req.ReminderDate) {
		if req.DueDate == nil || now.Before(*req.DueDate) {
			return StatusDue
		}
	}

	// Rule 6: a live certificate within validity. A requirement with a future
	// due date but no certificate is still not-yet-certified.
	if cert == nil {
		return StatusNotYetCertified
	}
	return StatusActive
}

// deadlineOf picks the first non-nil of due date, valid-until, reminder date.
func deadlineOf(req Requirement) *time.Time {
	if req.DueDate != nil {
		return req.DueDate
	}
	if req.Certificate != nil && req.Certificate.ValidUntil != nil {
		return req.Certificate.ValidUntil
	}
	return req.ReminderDate
}
