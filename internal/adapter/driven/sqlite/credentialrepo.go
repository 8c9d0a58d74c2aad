package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CredentialRepo is the SQLite implementation of the CredentialStore port interface.
// Tokens are encrypted with AES-256-GCM before write and decrypted after read.
type CredentialRepo struct {
	db     *DB
	cipher tokenCipher
}

// NewCredentialRepo creates a new CredentialRepo. key must be 32 bytes for AES-256-GCM,
// or nil, in which case every token read or write returns driven.ErrEncryptionKeyNotSet.
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	return &CredentialRepo{db: db, cipher: tokenCipher{key: key}}
}

// Create inserts the credential and its models in one transaction. Duplicate
// model names in cred.Models are stored once. Models are stored inactive.
func (r *CredentialRepo) Create(ctx context.Context, cred model.Credential) (model.Credential, error) {
	encrypted, err := r.cipher.encrypt(cred.Token)
	if err != nil {
		return model.Credential{}, err
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return model.Credential{}, fmt.Errorf("begin create credential: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	created := model.Credential{
		ID:          uuid.NewString(),
		Name:        cred.Name,
		Token:       cred.Token,
		EndpointURL: cred.EndpointURL,
		Available:   cred.Available,
		Models:      []model.Model{},
	}

	const insertCred = `INSERT INTO ai_credentials (id, name, token, endpoint_url) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertCred, created.ID, created.Name, encrypted, created.EndpointURL); err != nil {
		if isUniqueViolation(err) {
			return model.Credential{}, fmt.Errorf("create credential %q: %w", cred.EndpointURL, driven.ErrCredentialExists)
		}
		return model.Credential{}, fmt.Errorf("create credential %q: %w", cred.EndpointURL, err)
	}

	const insertModel = `INSERT INTO ai_models (id, credential_id, name, active) VALUES (?, ?, ?, 0)`
	for _, m := range cred.Models {
		if created.HasModel(m.Name) {
			continue
		}
		stored := model.Model{ID: uuid.NewString(), Name: m.Name, CredentialID: created.ID}
		if _, err := tx.ExecContext(ctx, insertModel, stored.ID, stored.CredentialID, stored.Name); err != nil {
			return model.Credential{}, fmt.Errorf("create model %q: %w", m.Name, err)
		}
		created.Models = append(created.Models, stored)
	}

	if err := tx.Commit(); err != nil {
		return model.Credential{}, fmt.Errorf("commit create credential: %w", err)
	}
	return created, nil
}

// ListAll returns all credentials in insertion order, each with its models in insertion order.
func (r *CredentialRepo) ListAll(ctx context.Context) ([]model.Credential, error) {
	const query = `SELECT id, name, token, endpoint_url FROM ai_credentials ORDER BY rowid`
	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	creds := []model.Credential{}
	index := map[string]int{}
	for rows.Next() {
		cred, err := r.scanCredential(rows)
		if err != nil {
			return nil, err
		}
		index[cred.ID] = len(creds)
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	_ = rows.Close()

	models, err := listModels(ctx, r.db.Reader, "", "")
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		if i, ok := index[m.CredentialID]; ok {
			creds[i].Models = append(creds[i].Models, m)
		}
	}

	return creds, nil
}

// Delete removes the credential with the given ID; its models are removed by cascade.
func (r *CredentialRepo) Delete(ctx context.Context, id string) (model.Credential, error) {
	return r.deleteBy(ctx, "id", id)
}

// DeleteByEndpoint removes the credential registered for endpointURL.
func (r *CredentialRepo) DeleteByEndpoint(ctx context.Context, endpointURL string) (model.Credential, error) {
	return r.deleteBy(ctx, "endpoint_url", endpointURL)
}

// ActivateModel upserts m by (credential, name) and makes it the single active model.
func (r *CredentialRepo) ActivateModel(ctx context.Context, m model.Model) (model.Model, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return model.Model{}, fmt.Errorf("begin activate model: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM ai_credentials WHERE id = ?`, m.CredentialID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Model{}, fmt.Errorf("activate model %q: %w", m.Name, driven.ErrCredentialNotFound)
	}
	if err != nil {
		return model.Model{}, fmt.Errorf("activate model %q: %w", m.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE ai_models SET active = 0 WHERE active = 1`); err != nil {
		return model.Model{}, fmt.Errorf("deactivate models: %w", err)
	}

	const upsert = `INSERT INTO ai_models (id, credential_id, name, active) VALUES (?, ?, ?, 1)
		ON CONFLICT (credential_id, name) DO UPDATE SET active = 1`
	if _, err := tx.ExecContext(ctx, upsert, uuid.NewString(), m.CredentialID, m.Name); err != nil {
		return model.Model{}, fmt.Errorf("activate model %q: %w", m.Name, err)
	}

	activated := model.Model{Name: m.Name, CredentialID: m.CredentialID, Active: true}
	const selectID = `SELECT id FROM ai_models WHERE credential_id = ? AND name = ?`
	if err := tx.QueryRowContext(ctx, selectID, m.CredentialID, m.Name).Scan(&activated.ID); err != nil {
		return model.Model{}, fmt.Errorf("read activated model %q: %w", m.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Model{}, fmt.Errorf("commit activate model: %w", err)
	}
	return activated, nil
}

// ActiveModel returns the single active model joined with its credential.
func (r *CredentialRepo) ActiveModel(ctx context.Context) (model.ActiveModel, error) {
	const query = `SELECT m.id, m.name, m.credential_id, c.endpoint_url, c.token
		FROM ai_models m JOIN ai_credentials c ON c.id = m.credential_id
		WHERE m.active = 1`

	var active model.ActiveModel
	var encrypted string
	err := r.db.Reader.QueryRowContext(ctx, query).Scan(
		&active.Model.ID, &active.Model.Name, &active.Model.CredentialID, &active.EndpointURL, &encrypted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ActiveModel{}, driven.ErrModelNotFound
	}
	if err != nil {
		return model.ActiveModel{}, fmt.Errorf("get active model: %w", err)
	}
	active.Model.Active = true

	active.Token, err = r.cipher.decrypt(encrypted)
	if err != nil {
		return model.ActiveModel{}, fmt.Errorf("decrypt token for %q: %w", active.EndpointURL, err)
	}
	return active, nil
}

func (r *CredentialRepo) deleteBy(ctx context.Context, column, value string) (model.Credential, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return model.Credential{}, fmt.Errorf("begin delete credential: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cred, err := r.getBy(ctx, tx, column, value)
	if err != nil {
		return model.Credential{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ai_credentials WHERE id = ?`, cred.ID); err != nil {
		return model.Credential{}, fmt.Errorf("delete credential %q: %w", cred.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Credential{}, fmt.Errorf("commit delete credential: %w", err)
	}
	return cred, nil
}

// getBy loads one credential by an indexed column. column is never user input.
func (r *CredentialRepo) getBy(ctx context.Context, q queryer, column, value string) (model.Credential, error) {
	query := `SELECT id, name, token, endpoint_url FROM ai_credentials WHERE ` + column + ` = ?`
	rows, err := q.QueryContext(ctx, query, value)
	if err != nil {
		return model.Credential{}, fmt.Errorf("get credential by %s: %w", column, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Credential{}, fmt.Errorf("get credential by %s: %w", column, err)
		}
		return model.Credential{}, fmt.Errorf("credential %q: %w", value, driven.ErrCredentialNotFound)
	}
	cred, err := r.scanCredential(rows)
	if err != nil {
		return model.Credential{}, err
	}
	_ = rows.Close()

	cred.Models, err = listModels(ctx, q, "credential_id", cred.ID)
	if err != nil {
		return model.Credential{}, err
	}
	return cred, nil
}

func (r *CredentialRepo) scanCredential(rows *sql.Rows) (model.Credential, error) {
	cred := model.Credential{Available: true, Models: []model.Model{}}
	var encrypted string
	if err := rows.Scan(&cred.ID, &cred.Name, &encrypted, &cred.EndpointURL); err != nil {
		return model.Credential{}, fmt.Errorf("scan credential: %w", err)
	}

	token, err := r.cipher.decrypt(encrypted)
	if err != nil {
		return model.Credential{}, fmt.Errorf("decrypt token for %q: %w", cred.EndpointURL, err)
	}
	cred.Token = token
	return cred, nil
}

// listModels returns models in insertion order, optionally filtered by one column.
func listModels(ctx context.Context, q queryer, column, value string) ([]model.Model, error) {
	query := `SELECT id, name, credential_id, active FROM ai_models`
	var args []any
	if column != "" {
		query += ` WHERE ` + column + ` = ?`
		args = append(args, value)
	}
	query += ` ORDER BY rowid`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	models := []model.Model{}
	for rows.Next() {
		var m model.Model
		if err := rows.Scan(&m.ID, &m.Name, &m.CredentialID, &m.Active); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate models: %w", err)
	}
	return models, nil
}
