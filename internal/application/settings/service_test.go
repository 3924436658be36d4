package settings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rag-assistant/backend/internal/domain/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	infraRetrieval "github.com/rag-assistant/backend/internal/infrastructure/retrieval"
)

func newService(t *testing.T) (*Service, *infraRetrieval.SettingsStore) {
	t.Helper()
	dir := t.TempDir()
	store := infraRetrieval.NewSettingsStoreAt(filepath.Join(dir, "provider_settings.json"), filepath.Join(dir, ".key"))
	cfg := &config.ProviderConfig{Timeout: time.Second}
	provider, err := infraRetrieval.NewSwitchableProvider(cfg, store)
	require.NoError(t, err)
	return NewService(provider, store, cfg), store
}

func TestService_DefaultsToMock(t *testing.T) {
	svc, _ := newService(t)
	view, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, infraRetrieval.ModeMock, view.Mode)
	assert.False(t, view.Overridden)
	assert.Nil(t, view.UpdatedAt)
}

func TestService_UpdateAndClear(t *testing.T) {
	svc, store := newService(t)

	view, err := svc.Update(&UpdateRequest{Endpoint: "http://rag.internal:9000/", Credential: "sk-secret-1234"})
	require.NoError(t, err)
	assert.Equal(t, infraRetrieval.ModeRemote, view.Mode)
	assert.Equal(t, "http://rag.internal:9000", view.Endpoint)
	assert.Equal(t, "**********1234", view.Credential)
	assert.True(t, view.HasCredential)
	assert.True(t, view.Overridden)

	saved, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sk-secret-1234", saved.Credential)

	view, err = svc.Update(&UpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, infraRetrieval.ModeMock, view.Mode)
	assert.False(t, view.Overridden)
}

func TestService_UpdateRejectsInvalidEndpoint(t *testing.T) {
	svc, _ := newService(t)
	for _, endpoint := range []string{"ftp://host", "not a url", "http://"} {
		_, err := svc.Update(&UpdateRequest{Endpoint: endpoint})
		assert.ErrorIs(t, err, retrieval.ErrInvalidEndpoint, endpoint)
	}
}

func TestMaskCredential(t *testing.T) {
	assert.Equal(t, "", MaskCredential(""))
	assert.Equal(t, "***", MaskCredential("abc"))
	assert.Equal(t, "**cdef", MaskCredential("abcdef"))
}
