package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSecretGetter struct {
	values map[string]string
	err    error
	calls  int
}

func (f *fakeSecretGetter) GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	f.calls++
	if f.err != nil {
		return azsecrets.GetSecretResponse{}, f.err
	}
	var resp azsecrets.GetSecretResponse
	if v, ok := f.values[name]; ok {
		resp.Value = &v
	}
	return resp, nil
}

func TestVaultClient_CachesUntilTTL(t *testing.T) {
	fake := &fakeSecretGetter{values: map[string]string{"jwt-secret": "s3cret"}}
	client := newVaultClient(fake, &VaultConfig{VaultName: "kv", CacheEnabled: true, CacheTTL: time.Minute}, zap.NewNop())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		value, err := client.GetSecret(context.Background(), "jwt-secret")
		require.NoError(t, err)
		assert.Equal(t, "s3cret", value)
	}
	assert.Equal(t, 1, fake.calls)

	now = now.Add(time.Minute)
	_, err := client.GetSecret(context.Background(), "jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls)

	client.ClearCache()
	_, err = client.GetSecret(context.Background(), "jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, 3, fake.calls)
}

func TestVaultClient_NoCache(t *testing.T) {
	fake := &fakeSecretGetter{values: map[string]string{"db-password": "pw"}}
	client := newVaultClient(fake, &VaultConfig{VaultName: "kv"}, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := client.GetSecret(context.Background(), "db-password")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, fake.calls)
	assert.Equal(t, DefaultCacheTTL, client.cacheTTL)
}

func TestVaultClient_Errors(t *testing.T) {
	failing := &fakeSecretGetter{err: errors.New("forbidden")}
	client := newVaultClient(failing, &VaultConfig{VaultName: "kv", CacheEnabled: true}, zap.NewNop())

	_, err := client.GetSecret(context.Background(), "jwt-secret")
	assert.ErrorContains(t, err, "forbidden")

	empty := newVaultClient(&fakeSecretGetter{}, &VaultConfig{VaultName: "kv", CacheEnabled: true}, zap.NewNop())
	_, err = empty.GetSecret(context.Background(), "missing")
	assert.ErrorContains(t, err, "has no value")
}

func TestNewVaultClient_RequiresName(t *testing.T) {
	_, err := NewVaultClient(&VaultConfig{}, zap.NewNop())
	assert.Error(t, err)
}
