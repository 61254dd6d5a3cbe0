package secrets

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Static resolves secrets from definitions held in memory, typically loaded from the configuration file.
type Static struct {
	secrets map[string]map[string]string
}

// NewStatic parses the receiver → definition map. See ParseDefinition for the definition format.
func NewStatic(definitions map[string]string) (*Static, error) {
	s := &Static{secrets: make(map[string]map[string]string, len(definitions))}
	for receiver, definition := range definitions {
		parsed, err := ParseDefinition(definition)
		if err != nil {
			return nil, errors.Wrapf(err, "receiver '%s'", receiver)
		}
		s.secrets[strings.ToLower(receiver)] = parsed
	}
	return s, nil
}

func (s *Static) Secret(_ context.Context, receiver, id string) (string, error) {
	secret, found := s.secrets[strings.ToLower(receiver)][normaliseID(id)]
	if !found {
		return "", errors.Wrapf(ErrNotFound, "receiver '%s' id '%s'", receiver, id)
	}
	return secret, nil
}
