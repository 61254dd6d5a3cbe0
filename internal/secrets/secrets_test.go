package secrets_test

import (
	"context"
	"strings"
	"testing"

	awsctl "github.com/isometry/litium-webhooks/internal/controllers/aws"
	gcpctl "github.com/isometry/litium-webhooks/internal/controllers/gcp"
	"github.com/isometry/litium-webhooks/internal/secrets"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	secretA = strings.Repeat("a", secrets.MinLength)
	secretB = strings.Repeat("b", secrets.MaxLength)
)

func TestParseDefinition(t *testing.T) {
	testCases := []struct {
		Name        string
		Definition  string
		Expected    map[string]string
		ExpectError bool
	}{
		{
			Name:       "bare_secret",
			Definition: secretA,
			Expected:   map[string]string{secrets.DefaultID: secretA},
		},
		{
			Name:       "id_pairs",
			Definition: "ERP = " + secretA + ", pim=" + secretB,
			Expected:   map[string]string{"erp": secretA, "pim": secretB},
		},
		{
			Name:       "mixed",
			Definition: secretA + ",erp=" + secretB + ",",
			Expected:   map[string]string{secrets.DefaultID: secretA, "erp": secretB},
		},
		{
			Name:        "too_many_parts",
			Definition:  "erp=" + secretA + "=x",
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			parsed, err := secrets.ParseDefinition(tc.Definition)
			if tc.ExpectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, parsed)
		})
	}
}

func TestResolve(t *testing.T) {
	static, err := secrets.NewStatic(map[string]string{
		"Litium": secretA + ", erp=" + secretB + ", short=tooshort, long=" + secretB + "b",
	})
	require.NoError(t, err)

	testCases := []struct {
		Name        string
		Receiver    string
		ID          string
		Expected    string
		ExpectError error
	}{
		{Name: "default_id", Receiver: "litium", Expected: secretA},
		{Name: "named_id", Receiver: "LITIUM", ID: "ERP", Expected: secretB},
		{Name: "unknown_id", Receiver: "litium", ID: "crm", ExpectError: secrets.ErrNotFound},
		{Name: "unknown_receiver", Receiver: "github", ExpectError: secrets.ErrNotFound},
		{Name: "too_short", Receiver: "litium", ID: "short", ExpectError: secrets.ErrInvalidLength},
		{Name: "too_long", Receiver: "litium", ID: "long", ExpectError: secrets.ErrInvalidLength},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			secret, err := secrets.Resolve(context.Background(), static, tc.Receiver, tc.ID)
			if tc.ExpectError != nil {
				assert.ErrorIs(t, err, tc.ExpectError)
				assert.Empty(t, secret)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, secret)
		})
	}
}

func TestResolve_NilResolver(t *testing.T) {
	_, err := secrets.Resolve(context.Background(), nil, "litium", "")
	assert.ErrorIs(t, err, secrets.ErrNotFound)
}

func TestResolve_MultiByteCharacters(t *testing.T) {
	// 32 characters, 64 bytes
	secret := strings.Repeat("é", secrets.MinLength)
	r, err := secrets.NewStatic(map[string]string{"litium": secret})
	require.NoError(t, err)

	resolved, err := secrets.Resolve(context.Background(), r, "litium", "")
	require.NoError(t, err)
	assert.Equal(t, secret, resolved)
}

func TestEnv_Secret(t *testing.T) {
	env := &secrets.Env{
		Prefix: "WEBHOOK_RECEIVER_SECRET_",
		LookupEnv: func(name string) (string, bool) {
			if name == "WEBHOOK_RECEIVER_SECRET_LITIUM" {
				return "erp=" + secretA, true
			}
			return "", false
		},
	}

	secret, err := env.Secret(context.Background(), "litium", "erp")
	require.NoError(t, err)
	assert.Equal(t, secretA, secret)

	_, err = env.Secret(context.Background(), "litium", "")
	assert.ErrorIs(t, err, secrets.ErrNotFound)

	_, err = env.Secret(context.Background(), "other", "erp")
	assert.ErrorIs(t, err, secrets.ErrNotFound)
}

type fakeParameterStore struct {
	values    map[string]string
	encrypted bool
	err       error
}

func (f *fakeParameterStore) GetSecret(_ context.Context, key string, encrypted bool) (string, error) {
	f.encrypted = encrypted
	if f.err != nil {
		return "", f.err
	}
	v, found := f.values[key]
	if !found {
		return "", errors.Wrap(awsctl.ErrParameterNotFound, key)
	}
	return v, nil
}

func TestSSM_Secret(t *testing.T) {
	store := &fakeParameterStore{values: map[string]string{
		"/webhooks/litium/default": secretA,
		"/webhooks/litium/erp":     secretB,
	}}
	r := &secrets.SSM{Store: store, Prefix: "webhooks"}

	secret, err := r.Secret(context.Background(), "Litium", "")
	require.NoError(t, err)
	assert.Equal(t, secretA, secret)
	assert.True(t, store.encrypted)

	secret, err = r.Secret(context.Background(), "litium", "erp")
	require.NoError(t, err)
	assert.Equal(t, secretB, secret)

	_, err = r.Secret(context.Background(), "litium", "crm")
	assert.ErrorIs(t, err, secrets.ErrNotFound)

	store.err = errors.New("throttled")
	_, err = r.Secret(context.Background(), "litium", "erp")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, secrets.ErrNotFound)
}

type fakeSecretAccessor map[string]string

func (f fakeSecretAccessor) AccessSecret(_ context.Context, name string) (string, error) {
	v, found := f[name]
	if !found {
		return "", errors.Wrap(gcpctl.ErrSecretNotFound, name)
	}
	return v, nil
}

func TestGCP_Secret(t *testing.T) {
	r := &secrets.GCP{Accessor: fakeSecretAccessor{"webhook-litium-erp": secretA}}

	assert.Equal(t, "webhook-litium-default", r.Name("Litium", ""))

	secret, err := r.Secret(context.Background(), "litium", "ERP")
	require.NoError(t, err)
	assert.Equal(t, secretA, secret)

	_, err = r.Secret(context.Background(), "litium", "")
	assert.ErrorIs(t, err, secrets.ErrNotFound)
}
