package validate_test

import (
	"testing"

	relerrors "github.com/zigtools/zls-releases/relcore/errors"
	"github.com/zigtools/zls-releases/relcore/model/version"
)

func mustParse(t *testing.T, s string) version.Version {
	t.Helper()
	v, err := version.Parse(s)
	if err != nil {
		t.Fatalf("version.Parse(%q): %v", s, err)
	}
	return v
}

func errorAsUnsupportedMajor(err error) (*relerrors.UnsupportedMajorError, bool) {
	e, ok := err.(*relerrors.UnsupportedMajorError)
	return e, ok
}
