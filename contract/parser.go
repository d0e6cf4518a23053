package contract

import (
	"regexp"
	"strings"
)

// Labels that appear as bullets but are boilerplate, not editable fields or custom clauses
var excludedLabels = map[string]struct{}{
	"Client":           {},
	"Vendor":           {},
	"Deposit":          {},
	"Balance Due":      {},
	"Payment Method":   {},
	"Payment Schedule": {},
}

var (
	fieldLinePattern = regexp.MustCompile(`^\s*-\s*\*\*([^*]+?):\*\*\s*(.*?)\s*$`)
	totalFeeMarker   = "**" + FieldTotalFee.Label() + ":**"
)

// Parsed is the structured view of a contract document
type Parsed struct {
	Fields       Fields        `json:"fields"`
	CustomFields []CustomField `json:"customFields"`
}

// Parse extracts field values and custom clauses from document text. It never
// fails; text without field lines yields an empty result.
func Parse(content string) Parsed {
	out := Parsed{CustomFields: []CustomField{}}
	lines := strings.Split(content, "\n")

	feeMatched := false
	for _, line := range lines {
		m := fieldLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label, value := strings.TrimSpace(m[1]), m[2]
		if isPlaceholder(value) {
			value = ""
		}

		if k, ok := FieldKeyForLabel(label); ok {
			if k.Numeric() {
				value = digitsOnly(value)
			}
			if k == FieldTotalFee {
				feeMatched = true
			}
			out.Fields.set(k, value)
			continue
		}
		if _, skip := excludedLabels[label]; skip {
			continue
		}
		out.CustomFields = append(out.CustomFields, CustomField{Header: label, Value: value})
	}

	if !feeMatched {
		for _, line := range lines {
			if idx := strings.Index(line, totalFeeMarker); idx >= 0 {
				out.Fields.set(FieldTotalFee, digitsOnly(line[idx+len(totalFeeMarker):]))
				break
			}
		}
	}
	return out
}
