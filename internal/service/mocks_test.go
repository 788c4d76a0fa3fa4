package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
	"github.com/vidora/vidora-backend/pkg/cache"
)

// --- Mock ReactionStore ---

type mockReactionStore struct {
	mock.Mock
}

func (m *mockReactionStore) FindReaction(ctx context.Context, actorID uint64, target domain.Target) (*domain.Reaction, error) {
	args := m.Called(ctx, actorID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reaction), args.Error(1)
}

func (m *mockReactionStore) CreateReaction(ctx context.Context, r *domain.Reaction) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReactionStore) SwapReactionKind(ctx context.Context, existing *domain.Reaction, kind domain.ReactionKind) (bool, error) {
	args := m.Called(ctx, existing, kind)
	return args.Bool(0), args.Error(1)
}

func (m *mockReactionStore) DeleteReaction(ctx context.Context, existing *domain.Reaction) (bool, error) {
	args := m.Called(ctx, existing)
	return args.Bool(0), args.Error(1)
}

func (m *mockReactionStore) CountReactions(ctx context.Context, target domain.Target, kind domain.ReactionKind) (int64, error) {
	args := m.Called(ctx, target, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReactionStore) CountReactionsByTargets(ctx context.Context, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionCounts, error) {
	args := m.Called(ctx, targetType, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint64]domain.ReactionCounts), args.Error(1)
}

func (m *mockReactionStore) FindActorReactions(ctx context.Context, actorID uint64, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionKind, error) {
	args := m.Called(ctx, actorID, targetType, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint64]domain.ReactionKind), args.Error(1)
}

func (m *mockReactionStore) ListActorReactions(ctx context.Context, actorID uint64, targetType domain.TargetType, kind domain.ReactionKind, offset, limit int) ([]*domain.Reaction, int64, error) {
	args := m.Called(ctx, actorID, targetType, kind, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Reaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockReactionStore) CountKindOnTargets(ctx context.Context, targetType domain.TargetType, ids []uint64, kind domain.ReactionKind) (int64, error) {
	args := m.Called(ctx, targetType, ids, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReactionStore) DeleteTargetReactions(ctx context.Context, targetType domain.TargetType, ids []uint64) error {
	return m.Called(ctx, targetType, ids).Error(0)
}

// --- Mock TargetChecker ---

type mockTargetChecker struct {
	mock.Mock
}

func (m *mockTargetChecker) CheckTarget(ctx context.Context, target domain.Target, actorID uint64) error {
	return m.Called(ctx, target, actorID).Error(0)
}

// --- In-memory ReactionStore ---

type reactionKey struct {
	actor  uint64
	target domain.Target
}

// memReactionStore is a faithful in-memory ReactionStore used for property tests
type memReactionStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[reactionKey]*domain.Reaction
	writes int
}

func newMemReactionStore() *memReactionStore {
	return &memReactionStore{rows: make(map[reactionKey]*domain.Reaction)}
}

func (s *memReactionStore) FindReaction(_ context.Context, actorID uint64, target domain.Target) (*domain.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[reactionKey{actorID, target}]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memReactionStore) CreateReaction(_ context.Context, r *domain.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reactionKey{r.ActorID, r.Target()}
	if _, ok := s.rows[key]; ok {
		return repository.ErrDuplicate
	}
	s.nextID++
	r.ID = s.nextID
	cp := *r
	s.rows[key] = &cp
	s.writes++
	return nil
}

func (s *memReactionStore) SwapReactionKind(_ context.Context, existing *domain.Reaction, kind domain.ReactionKind) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[reactionKey{existing.ActorID, existing.Target()}]
	if !ok || r.Kind != existing.Kind {
		return false, nil
	}
	r.Kind = kind
	s.writes++
	return true, nil
}

func (s *memReactionStore) DeleteReaction(_ context.Context, existing *domain.Reaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reactionKey{existing.ActorID, existing.Target()}
	r, ok := s.rows[key]
	if !ok || r.Kind != existing.Kind {
		return false, nil
	}
	delete(s.rows, key)
	s.writes++
	return true, nil
}

func (s *memReactionStore) CountReactions(_ context.Context, target domain.Target, kind domain.ReactionKind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, r := range s.rows {
		if k.target == target && r.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (s *memReactionStore) CountReactionsByTargets(_ context.Context, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make(map[uint64]domain.ReactionCounts)
	for k, r := range s.rows {
		if k.target.Type != targetType || !wanted[k.target.ID] {
			continue
		}
		c := out[k.target.ID]
		if r.Kind == domain.ReactionLike {
			c.Likes++
		} else {
			c.Dislikes++
		}
		out[k.target.ID] = c
	}
	return out, nil
}

func (s *memReactionStore) FindActorReactions(_ context.Context, actorID uint64, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint64]domain.ReactionKind)
	for _, id := range ids {
		if r, ok := s.rows[reactionKey{actorID, domain.Target{Type: targetType, ID: id}}]; ok {
			out[id] = r.Kind
		}
	}
	return out, nil
}

func (s *memReactionStore) ListActorReactions(_ context.Context, actorID uint64, targetType domain.TargetType, kind domain.ReactionKind, offset, limit int) ([]*domain.Reaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*domain.Reaction
	for k, r := range s.rows {
		if k.actor == actorID && k.target.Type == targetType && r.Kind == kind {
			cp := *r
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []*domain.Reaction{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *memReactionStore) CountKindOnTargets(_ context.Context, targetType domain.TargetType, ids []uint64, kind domain.ReactionKind) (int64, error) {
	counts, _ := s.CountReactionsByTargets(context.Background(), targetType, ids)
	var n int64
	for _, c := range counts {
		if kind == domain.ReactionLike {
			n += c.Likes
		} else {
			n += c.Dislikes
		}
	}
	return n, nil
}

func (s *memReactionStore) DeleteTargetReactions(_ context.Context, targetType domain.TargetType, ids []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for k := range s.rows {
		if k.target.Type == targetType && wanted[k.target.ID] {
			delete(s.rows, k)
		}
	}
	return nil
}

// --- Fake media uploader ---

type fakeMedia struct {
	mu       sync.Mutex
	uploads  int
	deleted  []string
	failWith error
}

func (f *fakeMedia) Upload(_ context.Context, folder string, file *multipart.FileHeader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	f.uploads++
	return fmt.Sprintf("https://cdn.test/%s/%d-%s", folder, f.uploads, file.Filename), nil
}

func (f *fakeMedia) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

// --- In-memory cache.Service ---

type memCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *memCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	var keys []string
	for k := range c.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	c.mu.Unlock()
	return c.Delete(ctx, keys...)
}

func (c *memCache) Ping(context.Context) error { return nil }
