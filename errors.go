package cdx

import (
	"errors"
	"fmt"
	"strings"
)

var (
	NotFoundError = errors.New("NotFoundError")
)

// FaultKind categorizes problems found while reading a document.
type FaultKind string

const (
	// Always fatal.
	KindFormat        FaultKind = "format"
	KindTruncatedData FaultKind = "truncated_data"
	KindUndecidable   FaultKind = "undecidable"
	KindDepthExceeded FaultKind = "depth_exceeded"
	KindTooManyNodes  FaultKind = "too_many_nodes"

	// Recoverable: fatal only in rigid mode.
	KindUnknownObject        FaultKind = "unknown_object"
	KindIllegalChild         FaultKind = "illegal_child"
	KindUnknownProperty      FaultKind = "unknown_property"
	KindUnresolvedReference  FaultKind = "unresolved_reference"
	KindInvalidEnum          FaultKind = "invalid_enum"
	KindDecompression        FaultKind = "decompression"
	KindInvalidLength        FaultKind = "invalid_length"
	KindUnresolvedTableIndex FaultKind = "unresolved_table_index"
)

// Recoverable reports whether lenient mode may log and skip this kind
// of fault.
func (self FaultKind) Recoverable() bool {
	switch self {
	case KindFormat, KindTruncatedData, KindUndecidable,
		KindDepthExceeded, KindTooManyNodes:
		return false
	}
	return true
}

// ParseError is raised for fatal faults and, in rigid mode, for
// recoverable ones.
type ParseError struct {
	Kind   FaultKind
	Offset int64
	Tag    uint16
	Detail string
	Cause  error
}

func (self *ParseError) Error() string {
	var b strings.Builder

	b.WriteString("cdx: ")
	b.WriteString(string(self.Kind))
	fmt.Fprintf(&b, " at offset %d", self.Offset)
	if self.Tag != 0 {
		fmt.Fprintf(&b, " (tag %#04x)", self.Tag)
	}
	if self.Detail != "" {
		b.WriteString(": ")
		b.WriteString(self.Detail)
	}
	if self.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(self.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (self *ParseError) Unwrap() error {
	return self.Cause
}

// Is matches another *ParseError of the same kind so callers can test
// errors.Is(err, &ParseError{Kind: KindTruncatedData}).
func (self *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if ok {
		return t.Kind == self.Kind
	}
	return false
}

func newParseError(kind FaultKind, offset int64, tag uint16,
	format string, args ...interface{}) *ParseError {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &ParseError{
		Kind:   kind,
		Offset: offset,
		Tag:    tag,
		Detail: detail,
	}
}

// IsKind reports whether err carries a ParseError of the given kind.
func IsKind(err error, kind FaultKind) bool {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Kind == kind
	}
	return false
}

// Diagnostic records a recoverable fault that lenient mode skipped.
type Diagnostic struct {
	Kind    FaultKind `json:"kind"`
	Offset  int64     `json:"offset"`
	Tag     uint16    `json:"tag"`
	Message string    `json:"message"`
}

func (self Diagnostic) String() string {
	return fmt.Sprintf("%s at %d (tag %#04x): %s",
		self.Kind, self.Offset, self.Tag, self.Message)
}
