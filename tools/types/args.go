package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ArgumentError marks a tool call whose arguments failed validation. It is
// raised before any network call happens.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

// NewArgumentError creates an argument validation error
func NewArgumentError(format string, args ...any) *ArgumentError {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

// AsArgumentError extracts an ArgumentError from err if one is present.
func AsArgumentError(err error) (*ArgumentError, bool) {
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return argErr, true
	}
	return nil, false
}

// StringArg returns the required string argument named key.
func StringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", NewArgumentError("%s argument missing in arguments", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", NewArgumentError("Invalid %s: %v. Must be a string", key, raw)
	}
	return value, nil
}

// StringListArg returns the required string-array argument named key.
func StringListArg(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok {
		return nil, NewArgumentError("%s argument missing in arguments", key)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, NewArgumentError("Invalid %s: %v. Must be an array of strings", key, raw)
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		value, ok := item.(string)
		if !ok {
			return nil, NewArgumentError("Invalid %s: %v. Must be an array of strings", key, raw)
		}
		values = append(values, value)
	}
	return values, nil
}

// ObjectArg returns the required object argument named key.
func ObjectArg(args map[string]any, key string) (map[string]any, error) {
	raw, ok := args[key]
	if !ok {
		return nil, NewArgumentError("%s argument missing in arguments", key)
	}
	value, ok := raw.(map[string]any)
	if !ok {
		return nil, NewArgumentError("Invalid %s: %v. Must be an object", key, raw)
	}
	return value, nil
}

// EnumArg returns the required string argument named key, checking it against
// the allowed value set.
func EnumArg(args map[string]any, key string, allowed []string) (string, error) {
	value, err := StringArg(args, key)
	if err != nil {
		return "", err
	}
	for _, candidate := range allowed {
		if value == candidate {
			return value, nil
		}
	}
	return "", NewArgumentError("Invalid %s: %s. Must be one of: %s", key, value, strings.Join(allowed, ", "))
}

// PositiveIntArg returns the optional numeric argument named key, or def when
// absent. The value must be a whole number >= 1; JSON numbers arrive as
// float64, so whole-ness is checked explicitly.
func PositiveIntArg(args map[string]any, key string, def int) (int, error) {
	raw, ok := args[key]
	if !ok {
		return def, nil
	}

	var value int
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, NewArgumentError("Invalid %s: %v. Must be a positive integer", key, raw)
		}
		value = int(v)
	case int:
		value = v
	default:
		return 0, NewArgumentError("Invalid %s: %v. Must be a positive integer", key, raw)
	}

	if value < 1 {
		return 0, NewArgumentError("Invalid %s: %d. Must be a positive integer", key, value)
	}
	return value, nil
}

// BoolArg returns the optional boolean argument named key, or def when
// absent. No truthy coercion: a non-boolean value is rejected.
func BoolArg(args map[string]any, key string, def bool) (bool, error) {
	raw, ok := args[key]
	if !ok {
		return def, nil
	}
	value, ok := raw.(bool)
	if !ok {
		return false, NewArgumentError("Invalid %s: %v. Must be a boolean", key, raw)
	}
	return value, nil
}
