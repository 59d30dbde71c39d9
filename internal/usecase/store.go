package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kalive-dev/tic-tac-toe/internal/apperror"
	"github.com/kalive-dev/tic-tac-toe/internal/entity"
	"github.com/kalive-dev/tic-tac-toe/internal/game"
	"github.com/kalive-dev/tic-tac-toe/internal/pkg"
)

// The code space is small, so a fresh code can collide with a live
// session. A handful of retries is plenty.
const maxCodeAttempts = 5

var ErrNoFreeSessionCode = errors.New("could not allocate a free session code")

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	GetAll(ctx context.Context) ([]*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// SessionStore owns every session. All mutation funnels through it, and
// each session's mutation is serialized on a per-session lock so two
// nearly simultaneous moves cannot both pass the cell-empty check.
type SessionStore struct {
	logger      *slog.Logger
	sessionRepo sessionRepo

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionStore(logger *slog.Logger, sessionRepo sessionRepo) *SessionStore {
	return &SessionStore{
		logger:      logger,
		sessionRepo: sessionRepo,

		locks: make(map[string]*sync.Mutex),
	}
}

// Create - registers a new session owned by the given connection. The
// owner takes the first seat and always plays X.
func (that *SessionStore) Create(ctx context.Context, ownerID string) (*entity.Session, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := pkg.GenerateSessionCode()

		_, err := that.sessionRepo.GetByID(ctx, code)
		if err == nil {
			continue
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to check session code: %w", err)
		}

		owner := &entity.Player{
			ID:        ownerID,
			Mark:      game.PlayerX,
			SessionID: code,
		}

		session := entity.NewSession(code, owner)
		if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}

		return session, nil
	}

	return nil, ErrNoFreeSessionCode
}

func (that *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Admit - seats the given connection as the second player and assigns O.
func (that *SessionStore) Admit(ctx context.Context, id, connID string) (*entity.Session, *entity.Player, error) {
	lock := that.lock(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if session.IsFull() {
		return nil, nil, apperror.ErrSessionFull
	}

	player := &entity.Player{
		ID:        connID,
		Mark:      game.PlayerO,
		SessionID: session.ID,
	}

	session.Players = append(session.Players, player)
	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, player, nil
}

// Update - runs fn on the session under that session's lock and persists
// the result only when fn succeeds. This is the caller's exclusive access
// for the duration of one move application.
func (that *SessionStore) Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error) {
	lock := that.lock(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = fn(session); err != nil {
		return session, err
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, nil
}

// RemoveParticipant - destroys every session the connection sits in and
// returns the destroyed sessions so the caller can notify the survivors.
func (that *SessionStore) RemoveParticipant(ctx context.Context, connID string) ([]*entity.Session, error) {
	sessions, err := that.sessionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var affected []*entity.Session

	for _, session := range sessions {
		if !session.HasPlayer(connID) {
			continue
		}

		lock := that.lock(session.ID)
		lock.Lock()

		if err = that.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
			lock.Unlock()
			return affected, fmt.Errorf("failed to delete session: %w", err)
		}

		lock.Unlock()
		that.dropLock(session.ID)

		affected = append(affected, session)
	}

	return affected, nil
}

func (that *SessionStore) lock(id string) *sync.Mutex {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[id] = lock
	}

	return lock
}

func (that *SessionStore) dropLock(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.locks, id)
}
