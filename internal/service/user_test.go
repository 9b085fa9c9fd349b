package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesapi/notesapi/internal/cache"
	"github.com/notesapi/notesapi/internal/metrics"
	"github.com/notesapi/notesapi/internal/model"
	"github.com/notesapi/notesapi/internal/testutil"
)

type fakeUserCache struct {
	mu      sync.Mutex
	users   map[int64]*model.User
	getErr  error
	setErr  error
	setHits int
	deleted []int64
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{users: make(map[int64]*model.User)}
}

func (f *fakeUserCache) GetUser(ctx context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return u, nil
}

func (f *fakeUserCache) SetUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setHits++
	if f.setErr != nil {
		return f.setErr
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserCache) DeleteUser(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.users, id)
	return nil
}

func (f *fakeUserCache) has(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok
}

func newUserService(store *testutil.MemoryStore, c UserCache, rec metrics.Recorder) *UserService {
	return NewUserService(store, c, rec, testutil.DiscardLogger())
}

func TestGetOrCreateUser_CreatesThenReuses(t *testing.T) {
	store := testutil.NewMemoryStore()
	rec := metrics.NewInMemory()
	svc := newUserService(store, nil, rec)
	ctx := context.Background()

	first, err := svc.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "alice", first.Username)

	again, err := svc.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, store.UserCount())

	snap := rec.Snapshot()
	assert.Equal(t, uint64(1), snap.LoginsCreated)
	assert.Equal(t, uint64(1), snap.LoginsExisting)
}

func TestGetOrCreateUser_TrimsWhitespace(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := newUserService(store, nil, nil)
	ctx := context.Background()

	padded, err := svc.GetOrCreateUser(ctx, "  bob\t")
	require.NoError(t, err)
	assert.Equal(t, "bob", padded.Username)

	plain, err := svc.GetOrCreateUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, padded.ID, plain.ID)
}

func TestGetOrCreateUser_CaseSensitive(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := newUserService(store, nil, nil)
	ctx := context.Background()

	lower, err := svc.GetOrCreateUser(ctx, "carol")
	require.NoError(t, err)
	upper, err := svc.GetOrCreateUser(ctx, "Carol")
	require.NoError(t, err)

	assert.NotEqual(t, lower.ID, upper.ID)
}

func TestGetOrCreateUser_BlankUsername(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := newUserService(store, nil, nil)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.GetOrCreateUser(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidUsername, "username %q", name)
	}
	assert.Equal(t, 0, store.Writes())
}

func TestGetOrCreateUser_StorageFailure(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.Err = errors.New("connection refused")
	svc := newUserService(store, nil, nil)

	_, err := svc.GetOrCreateUser(context.Background(), "dave")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "find user by username", se.Op)
}

func TestGetOrCreateUser_ConcurrentSameUsername(t *testing.T) {
	store := testutil.NewMemoryStore()
	rec := metrics.NewInMemory()
	svc := newUserService(store, nil, rec)

	const workers = 16

	// Hold every caller after its miss until all have missed, so each one
	// attempts the insert.
	var missed sync.WaitGroup
	missed.Add(workers)
	store.AfterFind = func(username string) {
		missed.Done()
		missed.Wait()
	}

	ids := make([]int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := svc.GetOrCreateUser(context.Background(), "erin")
			errs[i] = err
			if u != nil {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, store.UserCount())

	snap := rec.Snapshot()
	assert.Equal(t, uint64(1), snap.LoginsCreated)
	assert.Equal(t, uint64(workers-1), snap.LoginsRace)
}

func TestGetOrCreateUser_PopulatesCache(t *testing.T) {
	store := testutil.NewMemoryStore()
	c := newFakeUserCache()
	svc := newUserService(store, c, nil)

	u, err := svc.GetOrCreateUser(context.Background(), "frank")
	require.NoError(t, err)

	cached, err := c.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "frank", cached.Username)
}

func TestGetOrCreateUser_CacheWriteFailureIgnored(t *testing.T) {
	store := testutil.NewMemoryStore()
	c := newFakeUserCache()
	c.setErr = errors.New("redis down")
	svc := newUserService(store, c, nil)

	u, err := svc.GetOrCreateUser(context.Background(), "gina")
	require.NoError(t, err)
	assert.Equal(t, "gina", u.Username)
	assert.Equal(t, 1, c.setHits)
}

func TestListUsernames_Sorted(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := newUserService(store, nil, nil)
	ctx := context.Background()

	for _, name := range []string{"zoe", "Adam", "bob"} {
		_, err := svc.GetOrCreateUser(ctx, name)
		require.NoError(t, err)
	}

	names, err := svc.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Adam", "bob", "zoe"}, names)
}

func TestListUsernames_Empty(t *testing.T) {
	svc := newUserService(testutil.NewMemoryStore(), nil, nil)

	names, err := svc.ListUsernames(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}
