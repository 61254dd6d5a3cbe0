package secrets

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Env resolves secrets from environment variables named <prefix><RECEIVER>, holding a secret definition.
// The variable is read on every lookup.
type Env struct {
	Prefix string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

func (e *Env) Secret(_ context.Context, receiver, id string) (string, error) {
	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	name := e.Prefix + strings.ToUpper(envReplacer.Replace(receiver))
	definition, found := lookup(name)
	if !found {
		return "", errors.Wrapf(ErrNotFound, "environment variable %s is not set", name)
	}
	parsed, err := ParseDefinition(definition)
	if err != nil {
		return "", errors.Wrapf(err, "environment variable %s", name)
	}
	secret, found := parsed[normaliseID(id)]
	if !found {
		return "", errors.Wrapf(ErrNotFound, "receiver '%s' id '%s'", receiver, id)
	}
	return secret, nil
}
