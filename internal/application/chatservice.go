package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
)

// ChatService sends user prompts to the active model.
type ChatService struct {
	store        driven.CredentialStore
	client       driven.ChatClient
	systemPrompt string
	logger       *slog.Logger
}

// NewChatService creates a ChatService. systemPrompt may be empty.
func NewChatService(store driven.CredentialStore, client driven.ChatClient, systemPrompt string, logger *slog.Logger) *ChatService {
	return &ChatService{
		store:        store,
		client:       client,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

// ActiveModel returns the model chat requests are sent to, without its credential.
func (s *ChatService) ActiveModel(ctx context.Context) (model.Model, error) {
	active, err := s.activeModel(ctx)
	if err != nil {
		return model.Model{}, err
	}
	return active.Model, nil
}

// Chat sends message to the active model and returns its answer.
func (s *ChatService) Chat(ctx context.Context, p model.Principal, in ChatInput) (string, error) {
	if !p.Authenticated() {
		return "", ErrUnauthorized
	}

	in.Message = strings.TrimSpace(in.Message)
	if err := validateInput(&in); err != nil {
		return "", err
	}

	active, err := s.activeModel(ctx)
	if err != nil {
		return "", err
	}

	answer, err := s.client.Chat(ctx, driven.ChatRequest{
		EndpointURL:  active.EndpointURL,
		Token:        active.Token,
		Model:        active.Model.Name,
		SystemPrompt: s.systemPrompt,
		Message:      in.Message,
	})
	if err != nil {
		return "", fmt.Errorf("chat with %s: %w", active.Model.Name, err)
	}

	s.logger.Debug("chat answered", "model", active.Model.Name, "user", p.ID, "answer_len", len(answer))
	return answer, nil
}

func (s *ChatService) activeModel(ctx context.Context) (model.ActiveModel, error) {
	active, err := s.store.ActiveModel(ctx)
	if errors.Is(err, driven.ErrModelNotFound) {
		return model.ActiveModel{}, ErrNoActiveModel
	}
	if err != nil {
		return model.ActiveModel{}, fmt.Errorf("load active model: %w", err)
	}
	return active, nil
}
