package engerr

import (
	"errors"
	"testing"
)

func TestKindOfClassifiesWrappedErrors(t *testing.T) {
	err := SourceUnavailable("open glo90.tif", errors.New("connection reset"))
	if KindOf(err) != KindSourceUnavailable {
		t.Errorf("got %v, want KindSourceUnavailable", KindOf(err))
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	if KindOf(errors.New("plain error")) != KindInternal {
		t.Error("a non-engerr error should classify as internal")
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WriteFailed("upload result", cause)
	if !errors.Is(err, cause) {
		t.Error("WriteFailed should wrap its cause for errors.Is")
	}
}

func TestCancelledAndTimedOutHaveNoCause(t *testing.T) {
	if errors.Unwrap(Cancelled()) != nil {
		t.Error("Cancelled should not wrap an underlying error")
	}
	if KindOf(TimedOut()) != KindTimedOut {
		t.Error("TimedOut should classify as KindTimedOut")
	}
}
