/*
Copyright 2026 The Searchd Authors.

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

// Package sdrpc holds the canonical error code space shared by the library
// and any serving layer wrapped around it.
package sdrpc

// Code is a canonical error classification, modeled on the gRPC code space.
type Code int32

const (
	// Code_OK means the operation completed successfully.
	Code_OK Code = 0
	// Code_UNKNOWN is the code of errors that carry no code of their own.
	Code_UNKNOWN Code = 2
	// Code_INVALID_ARGUMENT indicates the caller specified an invalid
	// argument, such as a malformed serialized query.
	Code_INVALID_ARGUMENT Code = 3
	// Code_NOT_FOUND indicates a requested entity was not found.
	Code_NOT_FOUND Code = 5
	// Code_FAILED_PRECONDITION indicates the operation was rejected because
	// the system is not in a state required for its execution, such as a
	// lifecycle method invoked out of order.
	Code_FAILED_PRECONDITION Code = 9
	// Code_UNIMPLEMENTED indicates the operation is not supported.
	Code_UNIMPLEMENTED Code = 12
	// Code_INTERNAL indicates an invariant expected by the underlying
	// system has been broken.
	Code_INTERNAL Code = 13
)

var codeName = map[Code]string{
	Code_OK:                  "OK",
	Code_UNKNOWN:             "UNKNOWN",
	Code_INVALID_ARGUMENT:    "INVALID_ARGUMENT",
	Code_NOT_FOUND:           "NOT_FOUND",
	Code_FAILED_PRECONDITION: "FAILED_PRECONDITION",
	Code_UNIMPLEMENTED:       "UNIMPLEMENTED",
	Code_INTERNAL:            "INTERNAL",
}

func (c Code) String() string {
	if name, ok := codeName[c]; ok {
		return name
	}
	return "UNKNOWN"
}
