package secrets

import (
	"context"
	"path"
	"strings"

	awsctl "github.com/isometry/litium-webhooks/internal/controllers/aws"
	"github.com/pkg/errors"
)

// ParameterStore is the subset of the AWS controller used by SSM.
type ParameterStore interface {
	GetSecret(ctx context.Context, key string, encrypted bool) (string, error)
}

// SSM resolves secrets from AWS SSM Parameter Store, one parameter per receiver id at <prefix>/<receiver>/<id>.
type SSM struct {
	Store             ParameterStore
	Prefix            string
	WithoutDecryption bool
}

func (s *SSM) Key(receiver, id string) string {
	return path.Join("/", s.Prefix, strings.ToLower(receiver), normaliseID(id))
}

func (s *SSM) Secret(ctx context.Context, receiver, id string) (string, error) {
	key := s.Key(receiver, id)
	secret, err := s.Store.GetSecret(ctx, key, !s.WithoutDecryption)
	if err != nil {
		if errors.Is(err, awsctl.ErrParameterNotFound) {
			return "", errors.Wrapf(ErrNotFound, "SSM parameter %s", key)
		}
		return "", errors.Wrap(err, "failed to resolve receiver secret")
	}
	return secret, nil
}
