package buildinfo_test

import (
	"testing"

	"github.com/zigtools/zls-releases/buildinfo"
)

func TestParsed_ReportsNotOKForUnstampedBuild(t *testing.T) {
	old := buildinfo.Version
	defer func() { buildinfo.Version = old }()

	buildinfo.Version = "dev"
	if _, ok := buildinfo.Parsed(); ok {
		t.Error("Parsed() ok = true for \"dev\", want false")
	}
}

func TestParsed_ParsesStampedSemVer(t *testing.T) {
	old := buildinfo.Version
	defer func() { buildinfo.Version = old }()

	buildinfo.Version = "1.4.0"
	v, ok := buildinfo.Parsed()
	if !ok {
		t.Fatal("Parsed() ok = false, want true")
	}
	if v.Major != 1 || v.Minor != 4 || v.Patch != 0 {
		t.Errorf("Parsed() = %+v, want 1.4.0", v)
	}
}

func TestString_OmitsCommitWhenUnset(t *testing.T) {
	oldV, oldC := buildinfo.Version, buildinfo.Commit
	defer func() { buildinfo.Version, buildinfo.Commit = oldV, oldC }()

	buildinfo.Version = "1.4.0"
	buildinfo.Commit = ""
	if got := buildinfo.String(); got != "1.4.0" {
		t.Errorf("String() = %q, want 1.4.0", got)
	}
}

func TestString_IncludesCommitWhenSet(t *testing.T) {
	oldV, oldC := buildinfo.Version, buildinfo.Commit
	defer func() { buildinfo.Version, buildinfo.Commit = oldV, oldC }()

	buildinfo.Version = "1.4.0"
	buildinfo.Commit = "abcdef1"
	if got := buildinfo.String(); got != "1.4.0 (abcdef1)" {
		t.Errorf("String() = %q, want \"1.4.0 (abcdef1)\"", got)
	}
}
