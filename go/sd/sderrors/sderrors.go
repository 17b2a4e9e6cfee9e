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

// Package sderrors provides the error type used across the codebase.
//
// Every error carries a canonical sdrpc.Code that classifies it for the
// caller: whether the input was bad, a precondition was violated, or
// something went wrong internally. Errors created by other packages can be
// wrapped; Code walks the chain and returns the code of the innermost coded
// error.
package sderrors

import (
	"errors"
	"fmt"
	"io"

	"searchd.io/searchd/go/sd/sdrpc"
)

// fundamental is an error with a code and a message.
type fundamental struct {
	msg  string
	code sdrpc.Code
}

func (f *fundamental) Error() string { return f.msg }

func (f *fundamental) ErrorCode() sdrpc.Code { return f.code }

func (f *fundamental) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		io.WriteString(s, f.msg)
	case 'q':
		fmt.Fprintf(s, "%q", f.msg)
	}
}

// New returns an error with the supplied message and code.
func New(code sdrpc.Code, message string) error {
	return &fundamental{
		msg:  message,
		code: code,
	}
}

// Errorf formats according to a format specifier and returns the string
// as a value that satisfies error.
func Errorf(code sdrpc.Code, format string, args ...any) error {
	return &fundamental{
		msg:  fmt.Sprintf(format, args...),
		code: code,
	}
}

type wrapping struct {
	cause error
	msg   string
}

func (w *wrapping) Error() string { return w.msg + ": " + w.cause.Error() }
func (w *wrapping) Unwrap() error { return w.cause }

// Wrap returns an error annotating err with the supplied message.
// If err is nil, Wrap returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrapping{
		cause: err,
		msg:   message,
	}
}

// Wrapf returns an error annotating err with the format specifier.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrapping{
		cause: err,
		msg:   fmt.Sprintf(format, args...),
	}
}

// Code returns the error code if it's a coded error.
// If not, it returns sdrpc.Code_UNKNOWN. A nil error has code sdrpc.Code_OK.
func Code(err error) sdrpc.Code {
	if err == nil {
		return sdrpc.Code_OK
	}
	for err != nil {
		if coded, ok := err.(interface{ ErrorCode() sdrpc.Code }); ok {
			return coded.ErrorCode()
		}
		err = errors.Unwrap(err)
	}
	return sdrpc.Code_UNKNOWN
}
