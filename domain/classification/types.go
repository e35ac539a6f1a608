// Package classification holds the request-scoped data model of a batch and the
// validator that turns an untrusted classifier response into vocabulary values.
package classification

import "strconv"

// InputRow is one data row keyed by trimmed header text.
type InputRow map[string]string

// Get returns the value for a header and whether the header exists in the row.
func (r InputRow) Get(header string) (string, bool) {
	v, ok := r[header]
	return v, ok
}

// InputGrid is the parsed data sheet: header row plus data rows in sheet order.
type InputGrid struct {
	Headers []string
	Rows    []InputRow
}

// Kind tags the shape of a value found in a decoded classifier response.
type Kind int

const (
	KindAbsent Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// RawValue is a tagged value decoded from untrusted text. Only Str is meaningful
// for KindString; Text holds the raw JSON for every other present kind.
type RawValue struct {
	Kind Kind
	Str  string
	Text string
}

// StringValue builds a string-kind value.
func StringValue(s string) RawValue {
	return RawValue{Kind: KindString, Str: s, Text: strconv.Quote(s)}
}

// NullValue builds a JSON null.
func NullValue() RawValue {
	return RawValue{Kind: KindNull, Text: "null"}
}

// NumberValue builds a number-kind value from its raw JSON text.
func NumberValue(raw string) RawValue {
	return RawValue{Kind: KindNumber, Text: raw}
}

// BoolValue builds a bool-kind value.
func BoolValue(b bool) RawValue {
	return RawValue{Kind: KindBool, Text: strconv.FormatBool(b)}
}

// StructuredValue builds an array/object value from its raw JSON text.
func StructuredValue(raw string) RawValue {
	return RawValue{Kind: KindStructured, Text: raw}
}

// Present reports whether the key carried any value other than null.
func (v RawValue) Present() bool {
	return v.Kind != KindAbsent && v.Kind != KindNull
}

func (v RawValue) String() string {
	if v.Kind == KindString {
		return v.Str
	}
	if v.Text != "" {
		return v.Text
	}
	return v.Kind.String()
}

// RawClassification is the decoded classifier response keyed by internal key.
type RawClassification map[string]RawValue

// Lookup returns the value for an internal key, KindAbsent when missing.
func (rc RawClassification) Lookup(internalKey string) RawValue {
	if v, ok := rc[internalKey]; ok {
		return v
	}
	return RawValue{Kind: KindAbsent}
}

// Validated maps each classification display key to an admissible value.
type Validated map[string]string

// OutputRow is one fully resolved output row, aligned with the output headers.
type OutputRow []string

// SheetRowNumber is the 1-based spreadsheet row of data row index i (header is row 1).
func SheetRowNumber(index int) int {
	return index + 2
}

// DestinationRow is the 1-based template row written for data row index i.
func DestinationRow(index int) int {
	return index + 3
}
