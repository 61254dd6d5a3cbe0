// Package secrets resolves the per-receiver secrets used to verify webhook signatures.
package secrets

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	MinLength = 32
	MaxLength = 128

	// DefaultID names the secret used when a request carries no receiver id.
	DefaultID = "default"
)

var (
	ErrNotFound      = errors.New("receiver secret not configured")
	ErrInvalidLength = errors.Errorf("receiver secret must be between %d and %d characters long", MinLength, MaxLength)
)

var validate = validator.New()

// Resolver looks up the secret configured for a receiver and receiver id.
// Implementations return ErrNotFound when nothing is configured.
type Resolver interface {
	Secret(ctx context.Context, receiver, id string) (string, error)
}

// Resolve fetches the secret for (receiver, id) and enforces the length constraint.
func Resolve(ctx context.Context, r Resolver, receiver, id string) (string, error) {
	if r == nil {
		return "", errors.Wrapf(ErrNotFound, "no secret resolver for receiver '%s'", receiver)
	}
	secret, err := r.Secret(ctx, receiver, id)
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", errors.Wrapf(ErrNotFound, "receiver '%s' id '%s'", receiver, id)
	}
	if err = validate.Var(secret, fmt.Sprintf("min=%d,max=%d", MinLength, MaxLength)); err != nil {
		return "", errors.Wrapf(ErrInvalidLength, "receiver '%s' id '%s'", receiver, id)
	}
	return secret, nil
}

func normaliseID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return DefaultID
	}
	return id
}

// ParseDefinition parses a receiver secret definition: either a bare secret used for the default id,
// or a comma separated list of 'id=secret' pairs. Ids are case-insensitive.
func ParseDefinition(definition string) (map[string]string, error) {
	out := make(map[string]string)
	for _, entry := range strings.Split(definition, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(entry, "=") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		switch len(parts) {
		case 1:
			out[DefaultID] = parts[0]
		case 2:
			out[normaliseID(parts[0])] = parts[1]
		default:
			return nil, errors.New("invalid secret definition: expecting '<secret>' or '<id>=<secret>' entries")
		}
	}
	return out, nil
}
