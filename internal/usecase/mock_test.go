//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"line-relay/internal/domain/model"
	"line-relay/internal/domain/ports/adapter"
	"line-relay/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock Messenger ----

type sentReply struct {
	Token string
	Msgs  []model.OutboundMessage
}

type sentPush struct {
	To   model.UserID
	Msgs []model.OutboundMessage
}

type MockMessenger struct {
	mu      sync.Mutex
	Replies []sentReply
	Pushes  []sentPush

	ReplyFunc func(ctx context.Context, replyToken string, msgs ...model.OutboundMessage) error
	PushFunc  func(ctx context.Context, to model.UserID, msgs ...model.OutboundMessage) error
}

var _ adapter.Messenger = (*MockMessenger)(nil)

func (m *MockMessenger) Reply(ctx context.Context, replyToken string, msgs ...model.OutboundMessage) error {
	m.mu.Lock()
	m.Replies = append(m.Replies, sentReply{Token: replyToken, Msgs: msgs})
	m.mu.Unlock()
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, replyToken, msgs...)
	}
	return nil
}

func (m *MockMessenger) Push(ctx context.Context, to model.UserID, msgs ...model.OutboundMessage) error {
	m.mu.Lock()
	m.Pushes = append(m.Pushes, sentPush{To: to, Msgs: msgs})
	m.mu.Unlock()
	if m.PushFunc != nil {
		return m.PushFunc(ctx, to, msgs...)
	}
	return nil
}

// ---- Mock UserRegistry ----

type MockUserRegistry struct {
	mu   sync.Mutex
	ids  map[model.UserID]bool
	list []model.UserID

	RecordErr error
	ListErr   error
}

var _ repository.UserRegistry = (*MockUserRegistry)(nil)

func NewMockUserRegistry() *MockUserRegistry {
	return &MockUserRegistry{ids: map[model.UserID]bool{}}
}

func (m *MockUserRegistry) Contains(ctx context.Context, id model.UserID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[id], nil
}

func (m *MockUserRegistry) RecordIfNew(ctx context.Context, id model.UserID) (bool, error) {
	if m.RecordErr != nil {
		return false, m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids[id] {
		return false, nil
	}
	m.ids[id] = true
	m.list = append(m.list, id)
	return true, nil
}

func (m *MockUserRegistry) List(ctx context.Context) ([]model.UserID, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.UserID(nil), m.list...), nil
}

// ---- Stub translator ----

type stubTranslator map[string]string

func (s stubTranslator) T(key string, args ...interface{}) string {
	format, ok := s[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}
