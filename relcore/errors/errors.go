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

// Package errors provides the reusable error types shared by the release
// core's enum-like and record types (Version, Compatibility, FailureCode,
// ReleaseRecord and friends).
//
// By centralizing ParseError, MarshalError, UnmarshalError and
// ValidationError here, every package under relcore reports failures with a
// stable shape instead of ad-hoc fmt.Errorf strings, which makes it possible
// for callers (in particular the HTTP layer) to type-switch on the failure
// instead of pattern matching error text.
package errors

import "strconv"

// ParseError is returned when parsing a string into a strongly typed
// value (a Version, a Compatibility, ...) fails because the input does not
// match the expected grammar.
type ParseError struct {
	// Type is the logical name of the type being parsed (for example
	// "Version" or "Compatibility").
	Type string

	// Value is the exact input string that could not be interpreted.
	Value string
}

// Error implements the error interface for ParseError.
//
// The message format is stable: "relcore: invalid {Type} value: {Value}".
func (e *ParseError) Error() string {
	return "relcore: invalid " + e.Type + " value: " + e.Value
}

// MarshalError is returned when marshaling a typed value fails because the
// value does not correspond to any of the type's known constants.
type MarshalError struct {
	Type  string
	Value int
}

// Error implements the error interface for MarshalError.
func (e *MarshalError) Error() string {
	return "relcore: cannot marshal invalid " + e.Type + " value: " + strconv.Itoa(e.Value)
}

// UnmarshalError is returned when unmarshaling data into a typed value
// fails, either because the raw payload is malformed or because it resolves
// to a value outside the type's domain.
type UnmarshalError struct {
	Type   string
	Data   []byte
	Reason string
}

// Error implements the error interface for UnmarshalError.
func (e *UnmarshalError) Error() string {
	return "relcore: cannot unmarshal " + e.Type + ": " + e.Reason
}

// ValidationError is returned when a model's Validate method finds that an
// invariant does not hold.
type ValidationError struct {
	Type   string
	Field  string
	Reason string
	Value  any
}

// Error implements the error interface for ValidationError.
//
//	"relcore: invalid {Type}.{Field}: {Reason}" (when Field is set)
//	"relcore: invalid {Type}: {Reason}"         (when Field is empty)
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "relcore: invalid " + e.Type + "." + e.Field + ": " + e.Reason
	}
	return "relcore: invalid " + e.Type + ": " + e.Reason
}

// UnsupportedMajorError is returned when a ReleaseRecord names a ZLS major
// version other than 0. The HTTP layer type-switches on this to answer with
// 418 rather than a generic 400: the request is not malformed, it is just
// describing a ZLS line this service was never built to track.
type UnsupportedMajorError struct {
	Major int
}

// Error implements the error interface for UnsupportedMajorError.
func (e *UnsupportedMajorError) Error() string {
	return "relcore: unsupported zls major version: " + strconv.Itoa(e.Major)
}
