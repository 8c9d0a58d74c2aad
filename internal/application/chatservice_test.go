package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/selflearning/internal/application"
	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

func activeStore() *mockStore {
	return &mockStore{active: &model.ActiveModel{
		Model:       model.Model{ID: "m1", Name: "llama3", CredentialID: "c1", Active: true},
		EndpointURL: "http://test.de",
		Token:       "secret",
	}}
}

func TestChatService_Chat(t *testing.T) {
	client := &mockChatClient{answer: "Hallo"}
	svc := application.NewChatService(activeStore(), client, "Du bist ein Tutor.", discardLogger())

	answer, err := svc.Chat(context.Background(), user, application.ChatInput{Message: "  Hi  "})

	require.NoError(t, err)
	assert.Equal(t, "Hallo", answer)
	require.Len(t, client.got, 1)
	assert.Equal(t, "http://test.de", client.got[0].EndpointURL)
	assert.Equal(t, "secret", client.got[0].Token)
	assert.Equal(t, "llama3", client.got[0].Model)
	assert.Equal(t, "Du bist ein Tutor.", client.got[0].SystemPrompt)
	assert.Equal(t, "Hi", client.got[0].Message)
}

func TestChatService_Unauthenticated(t *testing.T) {
	store := activeStore()
	client := &mockChatClient{answer: "x"}
	svc := application.NewChatService(store, client, "", discardLogger())

	_, err := svc.Chat(context.Background(), anonymous, application.ChatInput{Message: "Hi"})

	assert.ErrorIs(t, err, application.ErrUnauthorized)
	assert.Empty(t, store.calls)
	assert.Empty(t, client.got)
}

func TestChatService_EmptyMessage(t *testing.T) {
	svc := application.NewChatService(activeStore(), &mockChatClient{}, "", discardLogger())

	_, err := svc.Chat(context.Background(), user, application.ChatInput{Message: "   "})

	assert.ErrorIs(t, err, application.ErrValidation)
}

func TestChatService_NoActiveModel(t *testing.T) {
	client := &mockChatClient{answer: "x"}
	svc := application.NewChatService(&mockStore{}, client, "", discardLogger())

	_, err := svc.Chat(context.Background(), admin, application.ChatInput{Message: "Hi"})
	assert.ErrorIs(t, err, application.ErrNoActiveModel)
	assert.Empty(t, client.got)

	_, err = svc.ActiveModel(context.Background())
	assert.ErrorIs(t, err, application.ErrNoActiveModel)
}

func TestChatService_ClientError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := application.NewChatService(activeStore(), &mockChatClient{err: boom}, "", discardLogger())

	_, err := svc.Chat(context.Background(), user, application.ChatInput{Message: "Hi"})

	assert.ErrorIs(t, err, boom)
}

func TestChatService_ActiveModel(t *testing.T) {
	svc := application.NewChatService(activeStore(), &mockChatClient{}, "", discardLogger())

	m, err := svc.ActiveModel(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "llama3", m.Name)
}
