package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
)

func createTestCredential(t *testing.T, repo *CredentialRepo, endpoint string, models ...string) model.Credential {
	t.Helper()
	cred := model.Credential{Name: "Server " + endpoint, Token: "tok-" + endpoint, EndpointURL: endpoint}
	for _, name := range models {
		cred.Models = append(cred.Models, model.Model{Name: name})
	}
	created, err := repo.Create(context.Background(), cred)
	require.NoError(t, err)
	return created
}

func TestCredentialRepo_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	created := createTestCredential(t, repo, "http://test.de", "llama3", "mistral", "llama3")
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Models, 2, "duplicate model names are stored once")

	creds, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	got := creds[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Server http://test.de", got.Name)
	assert.Equal(t, "tok-http://test.de", got.Token)
	assert.Equal(t, "http://test.de", got.EndpointURL)
	require.Len(t, got.Models, 2)
	assert.Equal(t, "llama3", got.Models[0].Name)
	assert.Equal(t, "mistral", got.Models[1].Name)
	assert.Equal(t, created.ID, got.Models[0].CredentialID)
	assert.False(t, got.Models[0].Active)
}

func TestCredentialRepo_TokenEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	created := createTestCredential(t, repo, "http://secret.example")

	var stored string
	err := db.Reader.QueryRowContext(context.Background(),
		`SELECT token FROM ai_credentials WHERE id = ?`, created.ID).Scan(&stored)
	require.NoError(t, err)
	assert.NotEqual(t, "tok-http://secret.example", stored)
	assert.NotContains(t, stored, "tok-")
}

func TestCredentialRepo_CreateDuplicateEndpoint(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	createTestCredential(t, repo, "http://test.de")

	_, err := repo.Create(context.Background(), model.Credential{Name: "again", Token: "x", EndpointURL: "http://test.de"})
	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrCredentialExists)
}

func TestCredentialRepo_NoKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, nil)

	_, err := repo.Create(context.Background(), model.Credential{Name: "n", Token: "t", EndpointURL: "http://a"})
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}

func TestCredentialRepo_ListAllOrderAndGrouping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	first := createTestCredential(t, repo, "http://b.example", "m1")
	second := createTestCredential(t, repo, "http://a.example", "m2", "m3")

	creds, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, first.ID, creds[0].ID, "credentials come back in insertion order")
	assert.Equal(t, second.ID, creds[1].ID)
	assert.Len(t, creds[0].Models, 1)
	assert.Len(t, creds[1].Models, 2)
	assert.True(t, creds[0].Available)
}

func TestCredentialRepo_ListAllEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	creds, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, creds)
	assert.NotNil(t, creds)
}

func TestCredentialRepo_DeleteCascadesModels(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	created := createTestCredential(t, repo, "http://test.de", "m1", "m2")

	removed, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	assert.Len(t, removed.Models, 2)

	var count int
	require.NoError(t, db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM ai_models`).Scan(&count))
	assert.Zero(t, count)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, driven.ErrCredentialNotFound)
}

func TestCredentialRepo_DeleteByEndpoint(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	created := createTestCredential(t, repo, "http://localhost:1234")

	removed, err := repo.DeleteByEndpoint(ctx, "http://localhost:1234")
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = repo.DeleteByEndpoint(ctx, "http://localhost:1234")
	assert.ErrorIs(t, err, driven.ErrCredentialNotFound)
}

func TestCredentialRepo_ActivateModelKeepsOthers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	a := createTestCredential(t, repo, "http://a.example", "stored")
	b := createTestCredential(t, repo, "http://b.example")

	first, err := repo.ActivateModel(ctx, model.Model{Name: "stored", CredentialID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, a.Models[0].ID, first.ID, "activating a stored model reuses its row")
	assert.True(t, first.Active)

	second, err := repo.ActivateModel(ctx, model.Model{Name: "probed", CredentialID: b.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, second.ID)

	creds, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, creds[0].Models, 1, "activation never deletes other models")
	assert.False(t, creds[0].Models[0].Active)
	require.Len(t, creds[1].Models, 1)
	assert.True(t, creds[1].Models[0].Active)

	active, err := repo.ActiveModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "probed", active.Model.Name)
	assert.Equal(t, "http://b.example", active.EndpointURL)
	assert.Equal(t, "tok-http://b.example", active.Token)
}

func TestCredentialRepo_ActivateModelUnknownCredential(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	_, err := repo.ActivateModel(context.Background(), model.Model{Name: "x", CredentialID: "missing"})
	assert.ErrorIs(t, err, driven.ErrCredentialNotFound)
}

func TestCredentialRepo_ActiveModelNone(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	createTestCredential(t, repo, "http://a.example", "m1")

	_, err := repo.ActiveModel(context.Background())
	assert.ErrorIs(t, err, driven.ErrModelNotFound)
}

func TestCredentialRepo_SingleActiveIndex(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	created := createTestCredential(t, repo, "http://a.example", "m1", "m2")

	_, err := db.Writer.ExecContext(ctx, `UPDATE ai_models SET active = 1`)
	require.Error(t, err, "the schema rejects two active models")
	assert.True(t, isUniqueViolation(err))

	_, err = repo.ActivateModel(ctx, model.Model{Name: "m2", CredentialID: created.ID})
	require.NoError(t, err)
}
