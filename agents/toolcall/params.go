/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"fmt"
)

// Param extracts a required argument. On failure it returns the error
// response to send back to the model.
func Param[T any](call ToolCall, name string) (T, map[string]any) {
	v, err := extract[T](call.Args, name)
	if err != nil {
		return v, Error("%s", err)
	}
	return v, nil
}

func extract[T any](args map[string]any, name string) (T, error) {
	var zero T
	value, ok := args[name]
	if !ok {
		return zero, fmt.Errorf("%s parameter is required", name)
	}
	if v, ok := value.(T); ok {
		return v, nil
	}
	// JSON numbers decode as float64.
	if f, ok := value.(float64); ok {
		switch any(zero).(type) {
		case int:
			return any(int(f)).(T), nil
		case int64:
			return any(int64(f)).(T), nil
		}
	}
	return zero, fmt.Errorf("%s parameter must be of type %T, got %T", name, zero, value)
}

// Error creates an error response map.
func Error(format string, args ...any) map[string]any {
	return map[string]any{
		"error": fmt.Sprintf(format, args...),
	}
}
