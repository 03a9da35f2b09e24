package logging_test

import (
	"testing"

	"github.com/zigtools/zls-releases/logging"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := logging.New("not-a-level"); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestNew_AcceptsKnownLevel(t *testing.T) {
	logger, err := logging.New("debug")
	if err != nil {
		t.Fatalf("New(debug): %v", err)
	}
	if logger == nil {
		t.Error("New returned nil logger")
	}
}

func TestNewCLI_AcceptsKnownLevel(t *testing.T) {
	logger, err := logging.NewCLI("warn")
	if err != nil {
		t.Fatalf("NewCLI(warn): %v", err)
	}
	if logger == nil {
		t.Error("NewCLI returned nil logger")
	}
}

func TestRedactedAuthorization_PreservesSchemeOnly(t *testing.T) {
	got := logging.RedactedAuthorization("Basic YWRtaW46c2VjcmV0").String()
	if got != "Basic <redacted>" {
		t.Errorf("String() = %q, want %q", got, "Basic <redacted>")
	}
}

func TestRedactedAuthorization_AbsentHeader(t *testing.T) {
	got := logging.RedactedAuthorization("").String()
	if got != "(absent)" {
		t.Errorf("String() = %q, want (absent)", got)
	}
}
