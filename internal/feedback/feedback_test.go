package feedback

import (
	"fmt"
	"testing"
)

func TestDiscardDeclines(t *testing.T) {
	answered := false
	Discard.Confirm(Prompt{Title: "x"}, func(ok bool) {
		answered = true
		if ok {
			t.Fatalf("discard must decline")
		}
	})
	if !answered {
		t.Fatalf("expected continuation to run")
	}
}

func TestLoggedMirrors(t *testing.T) {
	var logged, shown string
	n := Logged(NotifierFunc(func(k Kind, title, body string) { shown = title }), func(f string, a ...any) {
		logged = fmt.Sprintf(f, a...)
	})
	n.Notify(Error, "Copy failed", "denied")
	if shown != "Copy failed" {
		t.Fatalf("expected wrapped notifier to receive notification")
	}
	if logged != "notify error: Copy failed: denied" {
		t.Fatalf("unexpected log line %q", logged)
	}
}
