package report

import (
	"testing"

	"github.com/pkg/errors"
)

func TestIsKindSeesWrappedErrors(t *testing.T) {
	err := errors.Wrap(Raise(KindOverload, nil, "no overload of '%s'", "forward"), "compiling Net")

	if !IsKind(err, KindOverload) {
		t.Error("wrapped compile error lost its kind")
	}

	if IsKind(err, KindSchema) {
		t.Error("compile error matched the wrong kind")
	}

	if IsKind(errors.New("plain"), KindOverload) {
		t.Error("a plain error has no kind")
	}
}

func TestAssertPanicsWithInternalError(t *testing.T) {
	defer func() {
		ie, ok := recover().(*InternalError)
		if !ok || ie.Message != "bad state 3" {
			t.Errorf("got %v, want an internal error", ie)
		}
	}()

	Assert(true, "never")
	Assert(false, "bad state %d", 3)
}

func TestSpanOver(t *testing.T) {
	span := NewSpanOver(&TextSpan{StartLine: 1, StartCol: 4}, &TextSpan{EndLine: 2, EndCol: 0})

	if span.String() != "2:5" || span.EndLine != 2 {
		t.Errorf("unexpected span %s", span)
	}

	var none *TextSpan
	if none.String() != "<unknown>" {
		t.Error("nil spans must print as unknown")
	}
}

func TestLogLevelFromName(t *testing.T) {
	for name, want := range map[string]int{"silent": LogLevelSilent, "warn": LogLevelWarn, "verbose": LogLevelVerbose} {
		if got, ok := LogLevelFromName(name); !ok || got != want {
			t.Errorf("log level %s: got %d", name, got)
		}
	}

	if _, ok := LogLevelFromName("loud"); ok {
		t.Error("unknown log level accepted")
	}
}
