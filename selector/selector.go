/*
   Copyright 2026 The zls-releases Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package selector implements the read path: given a Zig version and a
// requested compatibility, pick the release record a client should use, or
// report why none qualifies.
package selector

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
	"github.com/zigtools/zls-releases/store"
)

// Selector answers selectVersion queries against a Store.
type Selector struct {
	Store store.Store
}

// Select dispatches to tagged-release or development-build selection
// depending on whether zigVersion carries a development suffix.
func (s *Selector) Select(ctx context.Context, zigVersion version.Version, compatibility release.Compatibility) (release.ReleaseRecord, release.FailureCode, error) {
	if zigVersion.IsTagged() {
		return s.selectTagged(ctx, zigVersion)
	}
	return s.selectDevelopment(ctx, zigVersion, compatibility)
}

// ListAllTagged returns every tagged record in descending
// (major, minor, patch) order, the view the index materializer renders.
func (s *Selector) ListAllTagged(ctx context.Context) ([]release.ReleaseRecord, error) {
	return s.Store.AllTaggedDesc(ctx)
}

// selectTagged implements §4.4.1.
func (s *Selector) selectTagged(ctx context.Context, zigVersion version.Version) (release.ReleaseRecord, release.FailureCode, error) {
	byMinor, err := s.Store.TaggedByMinor(ctx, zigVersion.Major, zigVersion.Minor)
	if err != nil {
		return release.ReleaseRecord{}, 0, errors.Wrap(err, "selector: taggedByMinor")
	}
	if len(byMinor) > 0 {
		return byMinor[0], 0, nil
	}

	oldest, err := s.Store.AllTaggedAsc(ctx)
	if err != nil {
		return release.ReleaseRecord{}, 0, errors.Wrap(err, "selector: allTaggedAsc")
	}
	if len(oldest) == 0 {
		return release.ReleaseRecord{}, release.TaggedReleaseIncompatible, nil
	}
	first := oldest[0]
	if first.MinimumRuntimeZigVersion.Greater(zigVersion) {
		return release.ReleaseRecord{}, release.Unsupported, nil
	}
	return release.ReleaseRecord{}, release.TaggedReleaseIncompatible, nil
}

// effectiveMinimum is the Zig-version floor below which record r is known
// not to serve a request at compatibility c.
func effectiveMinimum(r release.ReleaseRecord, c release.Compatibility) version.Version {
	if c == release.OnlyRuntime {
		return r.MinimumRuntimeZigVersion
	}
	return version.Max(r.MinimumBuildZigVersion, r.MinimumRuntimeZigVersion)
}

// selectDevelopment implements §4.4.2's four phases.
func (s *Selector) selectDevelopment(ctx context.Context, zigVersion version.Version, compatibility release.Compatibility) (release.ReleaseRecord, release.FailureCode, error) {
	// Phase A: candidate set.
	dev, err := s.Store.DevByMinor(ctx, zigVersion.Major, zigVersion.Minor)
	if err != nil {
		return release.ReleaseRecord{}, 0, errors.Wrap(err, "selector: devByMinor")
	}

	var candidates []release.ReleaseRecord
	devNonEmpty := len(dev) > 0
	if devNonEmpty {
		candidates = dev
	} else {
		tagged, err := s.Store.AllTaggedDesc(ctx)
		if err != nil {
			return release.ReleaseRecord{}, 0, errors.Wrap(err, "selector: allTaggedDesc")
		}
		if len(tagged) > 0 {
			candidates = []release.ReleaseRecord{tagged[0]}
		}
	}
	if len(candidates) == 0 {
		return release.ReleaseRecord{}, release.DevelopmentBuildUnsupported, nil
	}

	// Phase B: support floor.
	floor := effectiveMinimum(candidates[0], compatibility)
	if zigVersion.Less(floor) {
		if devNonEmpty {
			return release.ReleaseRecord{}, release.DevelopmentBuildUnsupported, nil
		}
		return release.ReleaseRecord{}, release.Unsupported, nil
	}

	// Phase C: newest admissible release, tolerant of non-monotonic minima.
	selected := candidates[0]
	for _, cand := range candidates {
		m := effectiveMinimum(cand, compatibility)
		if zigVersion.Compare(m) >= 0 {
			selected = cand
		}
	}

	// Phase D: enclosed-in-failure check.
	if isVersionEnclosedInFailure(selected, zigVersion, compatibility) {
		return release.ReleaseRecord{}, release.DevelopmentBuildIncompatible, nil
	}
	return selected, 0, nil
}

type testedPoint struct {
	version version.Version
	success bool
}

// isVersionEnclosedInFailure implements §4.4's Phase D exactly: build the
// sorted tested list from selected's testedZigVersions and binary-search
// zigVersion within it.
func isVersionEnclosedInFailure(selected release.ReleaseRecord, zigVersion version.Version, compatibility release.Compatibility) bool {
	tested := make([]testedPoint, 0, len(selected.TestedZigVersions))
	for s, c := range selected.TestedZigVersions {
		v, err := version.Parse(s)
		if err != nil {
			// TestedZigVersions keys are always produced by
			// Version.String on a validated record; an unparseable key
			// means the record was never validated and the selector has
			// no sound basis to reason about it further.
			continue
		}
		tested = append(tested, testedPoint{version: v, success: testedSuccess(c, compatibility)})
	}
	sort.Slice(tested, func(i, j int) bool { return tested[i].version.Less(tested[j].version) })
	if len(tested) == 0 {
		return false
	}

	if zigVersion.Compare(tested[0].version) <= 0 {
		return !tested[0].success
	}
	last := len(tested) - 1
	if zigVersion.Compare(tested[last].version) >= 0 {
		return !tested[last].success
	}

	lo, hi := 0, last
	for lo < hi-1 {
		mid := (lo + hi) / 2
		switch {
		case tested[mid].version.Equal(zigVersion):
			return !tested[mid].success
		case tested[mid].version.Less(zigVersion):
			lo = mid
		default:
			hi = mid
		}
	}
	return !tested[lo].success && !tested[hi].success
}

// testedSuccess translates a recorded Compatibility into a pass/fail bit
// under the requested compatibility regime.
func testedSuccess(recorded release.Compatibility, requested release.Compatibility) bool {
	switch recorded {
	case release.Full:
		return true
	case release.OnlyRuntime:
		return requested == release.OnlyRuntime
	default:
		return false
	}
}
