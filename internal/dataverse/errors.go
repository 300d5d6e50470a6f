// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dataverse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error is returned when the server answers with a status outside the 2xx range.
type Error struct {
	StatusCode int
	Message    string
	Body       string
}

func newError(status int, body []byte) *Error {
	e := &Error{
		StatusCode: status,
		Body:       strings.TrimSpace(string(body)),
	}

	var env struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		e.Message = env.Message
	}

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}

	return fmt.Sprintf("Dataverse responded with HTTP status %d: %s", e.StatusCode, msg)
}

// Category implements runbatch.Categorizer.
func (e *Error) Category() string {
	return "DataverseException"
}
