package application_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockStore struct {
	mu sync.Mutex

	creds     []model.Credential
	listErr   error
	createErr error
	deleteErr error

	activateErr error
	active      *model.ActiveModel

	calls     []string
	created   []model.Credential
	activated []model.Model
	deleted   []string
}

func (m *mockStore) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockStore) Create(_ context.Context, cred model.Credential) (model.Credential, error) {
	m.record("Create")
	if m.createErr != nil {
		return model.Credential{}, m.createErr
	}
	cred.ID = "11111111-1111-1111-1111-111111111111"
	for i := range cred.Models {
		cred.Models[i].CredentialID = cred.ID
	}
	m.created = append(m.created, cred)
	return cred, nil
}

func (m *mockStore) ListAll(_ context.Context) ([]model.Credential, error) {
	m.record("ListAll")
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Credential, len(m.creds))
	for i, c := range m.creds {
		out[i] = c.Clone()
	}
	return out, nil
}

func (m *mockStore) Delete(_ context.Context, id string) (model.Credential, error) {
	m.record("Delete")
	m.deleted = append(m.deleted, id)
	if m.deleteErr != nil {
		return model.Credential{}, m.deleteErr
	}
	return model.Credential{ID: id, EndpointURL: "http://deleted.example"}, nil
}

func (m *mockStore) DeleteByEndpoint(_ context.Context, endpointURL string) (model.Credential, error) {
	m.record("DeleteByEndpoint")
	m.deleted = append(m.deleted, endpointURL)
	if m.deleteErr != nil {
		return model.Credential{}, m.deleteErr
	}
	return model.Credential{ID: "by-endpoint", EndpointURL: endpointURL}, nil
}

func (m *mockStore) ActivateModel(_ context.Context, mdl model.Model) (model.Model, error) {
	m.record("ActivateModel")
	m.activated = append(m.activated, mdl)
	if m.activateErr != nil {
		return model.Model{}, m.activateErr
	}
	mdl.ID = "22222222-2222-2222-2222-222222222222"
	mdl.Active = true
	return mdl, nil
}

func (m *mockStore) ActiveModel(_ context.Context) (model.ActiveModel, error) {
	m.record("ActiveModel")
	if m.active == nil {
		return model.ActiveModel{}, driven.ErrModelNotFound
	}
	return *m.active, nil
}

// mockProber answers per endpoint. Endpoints without an entry fail.
type mockProber struct {
	mu      sync.Mutex
	models  map[string][]string
	block   map[string]chan struct{}
	probed  []string
	lastTok string
}

func (m *mockProber) ListModels(ctx context.Context, endpointURL, token string) ([]string, error) {
	m.mu.Lock()
	m.probed = append(m.probed, endpointURL)
	m.lastTok = token
	names, ok := m.models[endpointURL]
	wait := m.block[endpointURL]
	m.mu.Unlock()

	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, driven.ErrProbeFailed
		}
	}
	if !ok {
		return nil, driven.ErrProbeFailed
	}
	return names, nil
}

type mockChatClient struct {
	answer string
	err    error
	got    []driven.ChatRequest
}

func (m *mockChatClient) Chat(_ context.Context, req driven.ChatRequest) (string, error) {
	m.got = append(m.got, req)
	return m.answer, m.err
}

var (
	admin     = model.Principal{ID: "admin-id", Name: "admin", Role: model.RoleAdmin}
	user      = model.Principal{ID: "user-id", Name: "user", Role: model.RoleUser}
	anonymous = model.Principal{}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
