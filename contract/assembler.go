package contract

import (
	"regexp"
	"strings"
)

// DefaultCurrency prefixes the total fee when no other symbol is configured
const DefaultCurrency = "R"

var labelPatterns [fieldCount]*regexp.Regexp

// paymentTermsLine matches the heading only when it stands on its own line
var paymentTermsLine = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(PaymentTermsHeading) + `[ \t]*$`)

func init() {
	for k := FieldKey(0); k < fieldCount; k++ {
		labelPatterns[k] = regexp.MustCompile(`(?m)^(\s*-\s*\*\*` + regexp.QuoteMeta(k.Label()) + `:\*\*)[^\n]*$`)
	}
}

// Assemble writes fields and custom clauses into base, normally a freshly
// generated template. Fields whose label base lacks are dropped. Blank custom
// clauses are skipped; the rest go just above the payment terms heading, or
// nowhere if base has no such heading.
func Assemble(fields Fields, custom []CustomField, base string, currency string) string {
	out := base
	for _, k := range fields.Keys() {
		display := displayValue(k, fields.Get(k), currency)
		out = labelPatterns[k].ReplaceAllString(out, "${1} "+strings.ReplaceAll(display, "$", "$$"))
	}

	var lines strings.Builder
	for _, c := range custom {
		if c.Blank() {
			continue
		}
		lines.WriteString("- **" + strings.TrimSpace(c.Header) + ":** " + strings.TrimSpace(c.Value) + "\n")
	}
	if lines.Len() == 0 {
		return out
	}

	// Last match: only fixed template text follows the real heading.
	matches := paymentTermsLine.FindAllStringIndex(out, -1)
	if len(matches) == 0 {
		return out
	}
	idx := matches[len(matches)-1][0]
	return out[:idx] + lines.String() + "\n" + out[idx:]
}

func displayValue(k FieldKey, v string, currency string) string {
	if v == "" {
		return NotSpecified
	}
	switch k {
	case FieldTotalFee:
		return currency + v
	case FieldHoursOfCoverage:
		return v + " hours"
	}
	return v
}
