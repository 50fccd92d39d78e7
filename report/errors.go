package report

import (
	"errors"
	"fmt"
	"os"
)

// Enumeration of the different kinds of compile errors.  The kind is used for
// display and lets callers distinguish diagnostics without matching on text.
const (
	KindUnsupportedValue = iota
	KindAttribute
	KindOverload
	KindSchema
	KindRecursion
	KindHostEquality
	KindConstant
	KindUsage
)

var errorKindNames = map[int]string{
	KindUnsupportedValue: "Value",
	KindAttribute:        "Attribute",
	KindOverload:         "Overload",
	KindSchema:           "Argument",
	KindRecursion:        "Recursion",
	KindHostEquality:     "Host Equality",
	KindConstant:         "Constant",
	KindUsage:            "Usage",
}

// LocalCompileError is a compilation error that occurs in a context in which
// the unit being compiled is known by the error handler and thus doesn't need
// to be passed along with the error.
type LocalCompileError struct {
	// The kind of error: must be one of the enumerated error kinds.
	Kind int

	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	return lce.Message
}

// KindName returns the display name of the error's kind.
func (lce *LocalCompileError) KindName() string {
	return errorKindNames[lce.Kind]
}

// Raise creates a new local compile error of the given kind.
func Raise(kind int, span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// IsKind returns whether err is (or wraps) a local compile error of the given
// kind.
func IsKind(err error, kind int) bool {
	var lce *LocalCompileError
	if errors.As(err, &lce) {
		return lce.Kind == kind
	}

	return false
}

// -----------------------------------------------------------------------------

// InternalError is the panic payload of a violated compiler invariant.  These
// are never user-facing diagnostics: they indicate a defect in the calling
// code and abort compilation of the whole unit.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.Message
}

// ICE panics with an internal compiler error.
func ICE(message string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(message, args...)})
}

// Assert panics with an internal compiler error if cond is false.
func Assert(cond bool, message string, args ...interface{}) {
	if !cond {
		ICE(message, args...)
	}
}

// -----------------------------------------------------------------------------

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: unreadable
// manifests, bad command-line usage, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports a compilation error.  The reprPath is the
// representative name of the unit being compiled.  The span may be nil in
// which case no position information will be printed.
func ReportCompileError(reprPath string, kind int, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayCompileMessage(errorKindNames[kind]+" Error", reprPath, span, fmt.Sprintf(message, args...), true)
	}
}

// ReportCompileWarning reports a compilation warning.  The arguments are of the
// same form as those to ReportCompileError.
func ReportCompileWarning(reprPath string, span *TextSpan, message string, args ...interface{}) {
	if rep.logLevel >= LogLevelWarn {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayCompileMessage("Warning", reprPath, span, fmt.Sprintf(message, args...), false)
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayStdError(reprPath, err)
	}
}

// -----------------------------------------------------------------------------

// CatchErrors catches any errors thrown by a `panic` during a stage of
// compilation. In effect, this handler determines when any errors
// "unrecoverable" within a given subsection of the compiler should stop
// bubbling.
// NB: This function must ALWAYS be deferred.
func CatchErrors(reprPath string) {
	if x := recover(); x != nil {
		switch v := x.(type) {
		case *InternalError:
			ReportICE("%s", v.Message)
		case *LocalCompileError:
			ReportCompileError(reprPath, v.Kind, v.Span, "%s", v.Message)
		case error:
			ReportStdError(reprPath, v)
		default:
			ReportFatal("%s", x)
		}
	}
}

// ReportError reports an error returned by a compilation stage, routing
// local compile errors to the compile error display.
func ReportError(reprPath string, err error) {
	var lce *LocalCompileError
	if errors.As(err, &lce) {
		ReportCompileError(reprPath, lce.Kind, lce.Span, "%s", err.Error())
	} else {
		ReportStdError(reprPath, err)
	}
}
