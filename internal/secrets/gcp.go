package secrets

import (
	"context"
	"strings"

	gcpctl "github.com/isometry/litium-webhooks/internal/controllers/gcp"
	"github.com/pkg/errors"
)

// SecretAccessor is the subset of the GCP controller used by GCP.
type SecretAccessor interface {
	AccessSecret(ctx context.Context, name string) (string, error)
}

// GCP resolves secrets from Google Cloud Secret Manager, one secret per receiver id named webhook-<receiver>-<id>.
type GCP struct {
	Accessor SecretAccessor
}

var gcpNameReplacer = strings.NewReplacer(".", "-", "/", "-", " ", "-")

func (g *GCP) Name(receiver, id string) string {
	return gcpNameReplacer.Replace("webhook-" + strings.ToLower(receiver) + "-" + normaliseID(id))
}

func (g *GCP) Secret(ctx context.Context, receiver, id string) (string, error) {
	name := g.Name(receiver, id)
	secret, err := g.Accessor.AccessSecret(ctx, name)
	if err != nil {
		if errors.Is(err, gcpctl.ErrSecretNotFound) {
			return "", errors.Wrapf(ErrNotFound, "secret %s", name)
		}
		return "", errors.Wrap(err, "failed to resolve receiver secret")
	}
	return secret, nil
}
