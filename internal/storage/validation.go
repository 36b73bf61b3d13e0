// Package storage provides the snapshot persistence backends for klaro.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidTag   = errors.New("invalid checkpoint tag")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSnapshot ensures a snapshot payload is present.
func validateSnapshot(data []byte) error {
	if data == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}
	return nil
}

// validateTag allows letters, digits, dots, dashes and underscores.
func validateTag(tag string) error {
	if err := validateString(tag, "tag"); err != nil {
		return err
	}
	for _, r := range tag {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			continue
		}
		return fmt.Errorf("%w: %q contains %q", ErrInvalidTag, tag, r)
	}
	return nil
}
