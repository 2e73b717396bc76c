// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package httperr provides error types that carry an HTTP status code through
the call stack.

The registry client wraps failed responses with their status code so callers
can classify them without string matching:

	err := httperr.WithCode(errors.New("package not found"), http.StatusNotFound)

	if httperr.Code(err) == http.StatusNotFound {
		// treat as a new package
	}

CodedError supports the standard wrapping pattern: errors.Is sees through it
and errors.As extracts it. Code returns http.StatusInternalServerError when
no CodedError is present in the chain, and http.StatusOK for a nil error.
*/
package httperr
