package contract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// FieldKey identifies one of the fixed, individually editable contract fields
type FieldKey int

const (
	FieldTotalFee FieldKey = iota
	FieldHoursOfCoverage
	FieldDeliverables
	FieldServiceStyle
	FieldStaffing
	FieldSpacesProvided
	FieldCapacity
	FieldRestrictions
	FieldPerformanceTime
	FieldServiceType
	FieldEquipment
	FieldScope
	FieldArrangementTypes
	fieldCount
)

// Labels as they appear in the document. The wire key is derived from the label.
var fieldLabels = [fieldCount]string{
	FieldTotalFee:         "Total Fee",
	FieldHoursOfCoverage:  "Hours of Coverage",
	FieldDeliverables:     "Deliverables",
	FieldServiceStyle:     "Service Style",
	FieldStaffing:         "Staffing",
	FieldSpacesProvided:   "Space(s) Provided",
	FieldCapacity:         "Capacity",
	FieldRestrictions:     "Restrictions",
	FieldPerformanceTime:  "Performance Time",
	FieldServiceType:      "Service Type",
	FieldEquipment:        "Equipment",
	FieldScope:            "Scope",
	FieldArrangementTypes: "Arrangement Types",
}

// Upper bounds for the digit-only fields
var numericLimits = map[FieldKey]int{
	FieldTotalFee:        1_000_000,
	FieldHoursOfCoverage: 48,
}

var (
	fieldKeys    [fieldCount]string
	keysByName   = make(map[string]FieldKey, fieldCount)
	keysByLabel  = make(map[string]FieldKey, fieldCount)
	allFieldKeys = make([]FieldKey, 0, fieldCount)
)

func init() {
	for k := FieldKey(0); k < fieldCount; k++ {
		name := DeriveKey(fieldLabels[k])
		fieldKeys[k] = name
		keysByName[name] = k
		keysByLabel[fieldLabels[k]] = k
		allFieldKeys = append(allFieldKeys, k)
	}
}

// DeriveKey turns a document label into its field key: the words of the label
// camel-cased with the first letter lower-cased. Spaces, '&' and other
// punctuation are dropped, so "Space(s) Provided" becomes "spaceSProvided".
func DeriveKey(label string) string {
	words := strings.FieldsFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for i, w := range words {
		runes := []rune(w)
		if i == 0 {
			runes[0] = unicode.ToLower(runes[0])
		} else {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

// AllFieldKeys returns every known key in declaration order
func AllFieldKeys() []FieldKey {
	out := make([]FieldKey, len(allFieldKeys))
	copy(out, allFieldKeys)
	return out
}

// ParseFieldKey resolves a wire key such as "totalFee"
func ParseFieldKey(name string) (FieldKey, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// FieldKeyForLabel resolves a document label such as "Total Fee"
func FieldKeyForLabel(label string) (FieldKey, bool) {
	k, ok := keysByLabel[label]
	return k, ok
}

func (k FieldKey) valid() bool { return k >= 0 && k < fieldCount }

// String returns the wire key
func (k FieldKey) String() string {
	if !k.valid() {
		return fmt.Sprintf("FieldKey(%d)", int(k))
	}
	return fieldKeys[k]
}

// Label returns the human-readable label used in the document
func (k FieldKey) Label() string {
	if !k.valid() {
		return ""
	}
	return fieldLabels[k]
}

// Numeric reports whether the field stores digits only
func (k FieldKey) Numeric() bool {
	_, ok := numericLimits[k]
	return ok
}

// Fields holds the structured values derived from a contract's content.
// The zero value is an empty set ready to use.
type Fields struct {
	values map[FieldKey]string
}

// NewFields builds a Fields from wire keys, validating each value
func NewFields(values map[string]string) (Fields, error) {
	var f Fields
	for name, v := range values {
		k, ok := ParseFieldKey(name)
		if !ok {
			return Fields{}, fieldError(ErrInvalidValue, name)
		}
		if err := f.Set(k, v); err != nil {
			return Fields{}, err
		}
	}
	return f, nil
}

// Get returns the value for k, or "" when unset
func (f Fields) Get(k FieldKey) string {
	return f.values[k]
}

// Has reports whether k has been set, even to ""
func (f Fields) Has(k FieldKey) bool {
	_, ok := f.values[k]
	return ok
}

func (f Fields) TotalFee() string        { return f.Get(FieldTotalFee) }
func (f Fields) HoursOfCoverage() string { return f.Get(FieldHoursOfCoverage) }

// Len returns the number of set fields
func (f Fields) Len() int { return len(f.values) }

// Keys returns the set keys in declaration order
func (f Fields) Keys() []FieldKey {
	keys := make([]FieldKey, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Set stores a value after normalising it. Numeric fields keep digits only and
// must stay within their bound; other values must fit on one line.
func (f *Fields) Set(k FieldKey, v string) error {
	if !k.valid() {
		return fieldError(ErrInvalidValue, k.String())
	}
	v, err := normalizeValue(k, v)
	if err != nil {
		return err
	}
	f.set(k, v)
	return nil
}

func (f *Fields) set(k FieldKey, v string) {
	if f.values == nil {
		f.values = make(map[FieldKey]string)
	}
	f.values[k] = v
}

// Normalize returns a validated copy with every value normalised as Set would
func (f Fields) Normalize() (Fields, error) {
	var out Fields
	for _, k := range f.Keys() {
		if err := out.Set(k, f.values[k]); err != nil {
			return Fields{}, err
		}
	}
	return out, nil
}

// Validate checks every value against the edit rules
func (f Fields) Validate() error {
	_, err := f.Normalize()
	return err
}

// Equal compares values key by key. An unset key equals an empty one.
func (f Fields) Equal(o Fields) bool {
	for _, k := range allFieldKeys {
		if f.Get(k) != o.Get(k) {
			return false
		}
	}
	return true
}

// Map returns the values keyed by wire key
func (f Fields) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k.String()] = v
	}
	return out
}

func (f Fields) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Map())
}

// UnmarshalJSON accepts known keys only. Values are stored as sent; bounds are
// checked by Validate at the edit boundary.
func (f *Fields) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Fields
	for name, v := range raw {
		k, ok := ParseFieldKey(name)
		if !ok {
			return fmt.Errorf("unknown contract field %q", name)
		}
		out.set(k, v)
	}
	*f = out
	return nil
}

func normalizeValue(k FieldKey, v string) (string, error) {
	v = strings.TrimSpace(v)
	if limit, ok := numericLimits[k]; ok {
		v = digitsOnly(v)
		if v == "" {
			return "", nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n > limit {
			return "", fieldError(ErrOutOfRange, k.String())
		}
		return v, nil
	}
	if strings.ContainsAny(v, "\r\n") || isPlaceholder(v) {
		return "", fieldError(ErrInvalidValue, k.String())
	}
	return v, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isPlaceholder(v string) bool {
	return len(v) >= 2 && strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]")
}

// CustomField is a vendor-authored clause outside the fixed field set
type CustomField struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// Blank reports whether the clause is still being written and must not be persisted
func (c CustomField) Blank() bool {
	return strings.TrimSpace(c.Header) == "" || strings.TrimSpace(c.Value) == ""
}

// NormalizeCustomFields trims complete clauses and rejects headers that would
// not read back as custom clauses. Blank entries pass through untouched.
func NormalizeCustomFields(in []CustomField) ([]CustomField, error) {
	out := make([]CustomField, 0, len(in))
	for _, c := range in {
		if c.Blank() {
			out = append(out, c)
			continue
		}
		c.Header = strings.TrimSpace(c.Header)
		c.Value = strings.TrimSpace(c.Value)
		if strings.ContainsAny(c.Header, "*:\r\n") || reservedLabel(c.Header) {
			return nil, fieldError(ErrInvalidValue, c.Header)
		}
		if strings.ContainsAny(c.Value, "\r\n") || isPlaceholder(c.Value) {
			return nil, fieldError(ErrInvalidValue, c.Header)
		}
		out = append(out, c)
	}
	return out, nil
}

func reservedLabel(header string) bool {
	if _, ok := keysByLabel[header]; ok {
		return true
	}
	_, ok := excludedLabels[header]
	return ok
}
