package logfields

import (
	"errors"
	"testing"
)

func TestHelpers(t *testing.T) {
	if a := Path("build"); a.Key != KeyPath || a.Value.String() != "build" {
		t.Fatalf("unexpected path attr: %+v", a)
	}
	if a := Command([]string{"git", "push", "origin"}); a.Value.String() != "git push origin" {
		t.Fatalf("unexpected command attr: %v", a.Value)
	}
	if a := ExitCode(3); a.Value.Int64() != 3 {
		t.Fatalf("unexpected exit code attr: %v", a.Value)
	}
	if a := DryRun(true); !a.Value.Bool() {
		t.Fatalf("expected dry_run true")
	}
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("expected empty error string")
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("unexpected error attr: %v", a.Value)
	}
}
