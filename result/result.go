// Package result implements the accumulating diagnostic value returned
// by every fallible operation in the module: an ordered sequence of
// error entries, each carrying a short code, a human message, and a
// free-form JSON payload. A Result is successful iff it has no
// non-warning entries; the +=-style Merge lets long operations collect
// failures from many sub-steps without aborting early.
package result

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Well-known error codes (spec.md §7).
const (
	CodeUnknownReference = "EUKN" // module/type/function/node not found
	CodeSlotOutOfRangeA  = "E22" // connection endpoint: left slot out of range
	CodeSlotOutOfRangeB  = "E23" // connection endpoint: right slot out of range
	CodeTypeMismatch     = "E24" // data connection between incompatible types
	CodeSchemaMissing    = "E1"  // malformed JSON: missing field
	CodeSchemaKind       = "E4"  // malformed JSON: wrong element kind
	CodeSchemaField      = "E37" // malformed JSON: field-level decode failure
	CodeSchemaNode       = "E43" // malformed JSON: node entry malformed
	CodeSchemaConnection = "E44" // malformed JSON: connection entry malformed
	CodeWarningUnknown   = "WUKN"
)

// Entry is one diagnostic produced by an operation.
type Entry struct {
	// Code is a short machine-readable error code, e.g. "E22" or "EUKN".
	// Codes beginning with "W" are warnings.
	Code string `json:"code"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Payload is free-form structured detail (e.g. the valid slot range
	// for a slot-out-of-range error). May be nil.
	Payload any `json:"payload,omitempty"`
}

// IsWarning reports whether the entry's code marks it as a warning
// (does not flip a Result's Success to false).
func (e Entry) IsWarning() bool {
	return strings.HasPrefix(e.Code, "W")
}

// Error implements the error interface so an Entry can be wrapped or
// compared with errors.Is/As when convenient.
func (e Entry) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Result is an ordered list of diagnostic entries accumulated over the
// course of one operation (or many merged sub-operations).
type Result struct {
	entries []Entry
}

// New returns an empty, successful Result.
func New() *Result {
	return &Result{}
}

// Fail returns a Result containing a single entry with the given code
// and formatted message.
func Fail(code, format string, args ...any) *Result {
	r := New()
	r.AddEntry(code, fmt.Sprintf(format, args...), nil)
	return r
}

// FailWithPayload is like Fail but attaches a structured payload.
func FailWithPayload(code, message string, payload any) *Result {
	r := New()
	r.AddEntry(code, message, payload)
	return r
}

// AddEntry appends one diagnostic entry, preserving append order.
func (r *Result) AddEntry(code, message string, payload any) {
	r.entries = append(r.entries, Entry{Code: code, Message: message, Payload: payload})
}

// Warnf appends a warning-class entry ("WUKN" unless code is overridden
// by the caller via AddEntry).
func (r *Result) Warnf(format string, args ...any) {
	r.AddEntry(CodeWarningUnknown, fmt.Sprintf(format, args...), nil)
}

// Merge appends every entry of other to r, in order. Merge is the "+="
// operator described in spec.md §3.1/§9: callers accumulate failures
// from sub-operations without early-exiting.
//
// A nil other is a no-op.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.entries = append(r.entries, other.entries...)
}

// Entries returns the accumulated entries in append order. The
// returned slice must not be mutated by the caller.
func (r *Result) Entries() []Entry {
	return r.entries
}

// Success reports whether r has no non-warning entries.
func (r *Result) Success() bool {
	if r == nil {
		return true
	}
	for _, e := range r.entries {
		if !e.IsWarning() {
			return false
		}
	}
	return true
}

// Err converts r into a single Go error via multierr, joining every
// non-warning entry's message. Returns nil if r is successful. This is
// the bridge used at the CLI boundary, where a single `error` is what
// os.Exit-driving code wants to inspect.
func (r *Result) Err() error {
	if r.Success() {
		return nil
	}
	var merged error
	for _, e := range r.entries {
		if e.IsWarning() {
			continue
		}
		merged = multierr.Append(merged, e)
	}
	return merged
}

// String renders every entry, one per line, for human-facing output
// (the CLI's "print the error chain" behavior from spec.md §7).
func (r *Result) String() string {
	var b strings.Builder
	for i, e := range r.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
		if e.Payload != nil {
			if data, err := json.Marshal(e.Payload); err == nil {
				b.WriteString(" payload=")
				b.Write(data)
			}
		}
	}
	return b.String()
}
