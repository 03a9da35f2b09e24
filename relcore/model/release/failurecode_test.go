package release_test

import (
	"encoding/json"
	"testing"

	"github.com/zigtools/zls-releases/relcore/model/release"
)

func TestFailureCode_MarshalJSON(t *testing.T) {
	tests := []struct {
		code release.FailureCode
		want string
	}{
		{release.Unsupported, "0"},
		{release.DevelopmentBuildUnsupported, "1"},
		{release.DevelopmentBuildIncompatible, "2"},
		{release.TaggedReleaseIncompatible, "3"},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.code)
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", tt.code, err)
		}
		if string(data) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.code, data, tt.want)
		}
	}
}

func TestFailureCode_UnmarshalJSON_RoundTrip(t *testing.T) {
	var got release.FailureCode
	if err := json.Unmarshal([]byte("2"), &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got != release.DevelopmentBuildIncompatible {
		t.Errorf("Unmarshal(2) = %v, want DevelopmentBuildIncompatible", got)
	}
}

func TestFailureCode_UnmarshalJSON_OutOfRange(t *testing.T) {
	var got release.FailureCode
	if err := json.Unmarshal([]byte("99"), &got); err == nil {
		t.Error("expected error unmarshaling out-of-range failure code")
	}
}

func TestFailureCode_String(t *testing.T) {
	if got := release.TaggedReleaseIncompatible.String(); got != "tagged-release-incompatible" {
		t.Errorf("String() = %q", got)
	}
	if got := release.FailureCode(99).String(); got != "unknown" {
		t.Errorf("String() for out-of-range = %q, want unknown", got)
	}
}
