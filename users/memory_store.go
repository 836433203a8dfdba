package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"geo_hierarchy/models"
)

// MemoryStore keeps users in process. Used in tests and with USER_STORE=memory.
type MemoryStore struct {
	mu     sync.RWMutex
	byCode map[string]models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byCode: make(map[string]models.User)}
}

func (s *MemoryStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byCode[u.Code]; ok {
		return ErrDuplicateCode
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	s.byCode[u.Code] = *u
	return nil
}

func (s *MemoryStore) FindByCodeRole(ctx context.Context, code, role string) (*models.User, error) {
	u, err := s.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) FindByCode(_ context.Context, code string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.byCode))
	for _, u := range s.byCode {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
