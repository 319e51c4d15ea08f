package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/model"
)

// memoryStore 与 UserRepository 行为一致的内存实现，用户名和邮箱各自唯一
type memoryStore struct {
	mu     sync.Mutex
	users  map[uint]*model.User
	nextID uint
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[uint]*model.User)}
}

func (m *memoryStore) find(match func(*model.User) bool) *model.User {
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (m *memoryStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.find(func(u *model.User) bool { return u.Username == username }), nil
}

func (m *memoryStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.find(func(u *model.User) bool { return u.Email == email }), nil
}

func (m *memoryStore) Upsert(_ context.Context, u *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	if u.ID != 0 {
		cur, ok := m.users[u.ID]
		if !ok || cur.Email != u.Email {
			return nil, apperr.Conflict(apperr.UsernameTaken, "username taken")
		}
		cur.ConfirmationCode = u.ConfirmationCode
		cur.CodeIssuedAt = u.CodeIssuedAt
		cur.ConfirmedAt = u.ConfirmedAt
		cp := *cur
		return &cp, nil
	}

	for _, cur := range m.users {
		if cur.Username == u.Username {
			if cur.Email != u.Email {
				return nil, apperr.Conflict(apperr.UsernameTaken, "username taken")
			}
			cur.ConfirmationCode = u.ConfirmationCode
			cur.CodeIssuedAt = u.CodeIssuedAt
			cur.ConfirmedAt = u.ConfirmedAt
			cp := *cur
			return &cp, nil
		}
		if cur.Email == u.Email {
			return nil, apperr.Conflict(apperr.EmailTaken, "email taken")
		}
	}

	m.nextID++
	stored := *u
	stored.ID = m.nextID
	m.users[stored.ID] = &stored
	cp := stored
	return &cp, nil
}

func (m *memoryStore) Save(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return apperr.NotFound("user", u.Username)
	}
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// captureSender 记录每个邮箱最近一次收到的确认码
type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
	all   []string
	sent  int
	err   error
}

func newCaptureSender() *captureSender {
	return &captureSender{codes: make(map[string]string)}
}

func (s *captureSender) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent++
	if s.err != nil {
		return s.err
	}
	s.codes[n.To] = n.Body
	s.all = append(s.all, n.Body)
	return nil
}

func (s *captureSender) code(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email]
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(u *model.User) (string, error) {
	if u.ID == 0 {
		return "", errors.New("issue token for unsaved user")
	}
	return fmt.Sprintf("token-%d-%s", u.ID, u.Username), nil
}
