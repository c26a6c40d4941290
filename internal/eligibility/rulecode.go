package eligibility

import (
	"strconv"
	"strings"
)

// ComposeRuleCode joins the non-empty, non-"-" parts of (certification code,
// level, sub-field code) with "-". If the composed string is empty it falls
// back to the explicit label when supplied, else the literal "-".
//
// Downstream views group and badge rows by this string, so the fallback chain
// must stay exactly as is.
func ComposeRuleCode(certificationCode string, level *int, subFieldCode, label string) string {
	var parts []string
	if certificationCode != "" && certificationCode != "-" {
		parts = append(parts, certificationCode)
	}
	if level != nil {
		parts = append(parts, strconv.Itoa(*level))
	}
	if subFieldCode != "" && subFieldCode != "-" {
		parts = append(parts, subFieldCode)
	}
	if len(parts) == 0 {
		if label != "" {
			return label
		}
		return "-"
	}
	return strings.Join(parts, "-")
}

// RuleCode composes the display code for a rule reference.
func (r RuleRef) RuleCode() string {
	return ComposeRuleCode(r.CertificationCode, r.Level, r.SubFieldCode, r.Label)
}
