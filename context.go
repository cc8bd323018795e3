package cdx

import (
	"errors"

	"www.velocidex.com/golang/vfilter"
)

// DecodeContext carries everything a decoder may consult while a
// document is populated. One context serves exactly one parse.
type DecodeContext struct {
	Scope   vfilter.Scope
	Catalog *Catalog
	Refs    *ReferenceManager

	// Tables installed by the table pre-pass of the nearest object
	// that carried them.
	Colors *ColorTable
	Fonts  *FontTable

	// Rigid turns recoverable faults into errors.
	Rigid bool

	// Location of the value being decoded.
	Tree     *Tree
	Node     *Node
	Property *Property

	Diagnostics []Diagnostic
}

func NewDecodeContext(scope vfilter.Scope, catalog *Catalog) *DecodeContext {
	return &DecodeContext{
		Scope:   scope,
		Catalog: catalog,
		Refs:    NewReferenceManager(),
		Colors:  &ColorTable{},
		Fonts:   &FontTable{},
	}
}

func (self *DecodeContext) location() (int64, uint16) {
	if self.Property != nil {
		return self.Property.Offset, self.Property.Tag
	}
	if self.Node != nil {
		return self.Node.Offset, self.Node.Tag
	}
	return 0, 0
}

// Fault reports a problem at the current location. Recoverable faults
// return nil in lenient mode after being logged and recorded.
func (self *DecodeContext) Fault(kind FaultKind, format string, args ...interface{}) error {
	offset, tag := self.location()
	return self.report(newParseError(kind, offset, tag, format, args...))
}

// FaultError routes an error produced elsewhere (for example by the
// ReferenceManager) through the same policy.
func (self *DecodeContext) FaultError(err error) error {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return err
	}

	if perr.Offset == 0 && perr.Tag == 0 {
		located := *perr
		located.Offset, located.Tag = self.location()
		perr = &located
	}
	return self.report(perr)
}

func (self *DecodeContext) report(err *ParseError) error {
	if self.Rigid || !err.Kind.Recoverable() {
		return err
	}

	message := err.Detail
	if err.Cause != nil && !errors.Is(err.Cause, NotFoundError) {
		message += ": " + err.Cause.Error()
	}

	self.Diagnostics = append(self.Diagnostics, Diagnostic{
		Kind:    err.Kind,
		Offset:  err.Offset,
		Tag:     err.Tag,
		Message: message,
	})

	if self.Scope != nil {
		self.Scope.Log("WARN:cdx: %v", err)
	}
	return nil
}

// ResolveReference looks id up and reports a fault when it does not
// resolve to one of kinds.
func (self *DecodeContext) ResolveReference(id uint32, kinds ...string) (*Object, error) {
	obj, err := self.Refs.Resolve(id, kinds...)
	if err != nil {
		return nil, self.FaultError(err)
	}
	return obj, nil
}
