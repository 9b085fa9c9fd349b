package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/notesapi/notesapi/internal/cache"
	"github.com/notesapi/notesapi/internal/metrics"
	"github.com/notesapi/notesapi/internal/model"
	"github.com/notesapi/notesapi/internal/repository"
)

// UserService handles user provisioning and lookup.
type UserService struct {
	users   UserStore
	cache   UserCache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUserService creates a new UserService. userCache may be nil.
func NewUserService(users UserStore, userCache UserCache, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:   users,
		cache:   userCache,
		metrics: recorder,
		logger:  logger,
	}
}

// GetOrCreateUser returns the user with the given username, creating it if needed.
// Surrounding whitespace is ignored. Concurrent calls with the same username
// resolve to the same user.
//
// Returns ErrInvalidUsername for a blank username and a StorageError otherwise.
func (s *UserService) GetOrCreateUser(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	existing, err := s.users.FindUserByUsername(ctx, username)
	if err == nil {
		s.metrics.IncLogin(metrics.LoginExisting)
		s.remember(ctx, existing)
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, storageError("find user by username", err)
	}

	user, err := s.users.InsertUser(ctx, username)
	if err != nil {
		// Handle race condition - another request may have created it
		if errors.Is(err, repository.ErrUsernameExists) {
			winner, ferr := s.users.FindUserByUsername(ctx, username)
			if ferr != nil {
				return nil, storageError("refetch user after conflict", ferr)
			}
			s.metrics.IncLogin(metrics.LoginRace)
			s.remember(ctx, winner)
			return winner, nil
		}
		return nil, storageError("insert user", err)
	}

	s.metrics.IncLogin(metrics.LoginCreated)
	s.logger.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)
	s.remember(ctx, user)
	return user, nil
}

// ListUsernames returns all usernames in ascending order.
func (s *UserService) ListUsernames(ctx context.Context) ([]string, error) {
	names, err := s.users.ListUsernames(ctx)
	if err != nil {
		return nil, storageError("list usernames", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// remember writes the user to the cache. Cache failures are logged and ignored.
func (s *UserService) remember(ctx context.Context, user *model.User) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetUser(ctx, user); err != nil {
		s.logger.Warn("user cache write failed",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
}

// cachedUser reads a user from the optional cache. A hit is only a hint:
// it must not be the sole evidence for any negative outcome.
func cachedUser(ctx context.Context, userCache UserCache, recorder metrics.Recorder, logger *slog.Logger, id int64) (*model.User, bool) {
	if userCache == nil {
		return nil, false
	}
	user, err := userCache.GetUser(ctx, id)
	if err == nil {
		recorder.IncUserCacheHit()
		return user, true
	}
	recorder.IncUserCacheMiss()
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn("user cache read failed",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()),
		)
	}
	return nil, false
}

// storedUser resolves a user by id from the store, which is authoritative.
// The cache is refreshed on a hit and evicted when the user is gone.
//
// Returns ErrUserNotFound or a StorageError.
func storedUser(ctx context.Context, users UserStore, userCache UserCache, logger *slog.Logger, id int64) (*model.User, error) {
	user, err := users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if userCache != nil {
				if derr := userCache.DeleteUser(ctx, id); derr != nil {
					logger.Warn("user cache evict failed",
						slog.Int64("user_id", id),
						slog.String("error", derr.Error()),
					)
				}
			}
			return nil, ErrUserNotFound
		}
		return nil, storageError("find user by id", err)
	}

	if userCache != nil {
		if err := userCache.SetUser(ctx, user); err != nil {
			logger.Warn("user cache write failed",
				slog.Int64("user_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return user, nil
}
