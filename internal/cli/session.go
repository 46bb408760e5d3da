package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/auth"
	"github.com/idilsaglam/rate/internal/board"
	"github.com/idilsaglam/rate/internal/storage"
	"github.com/idilsaglam/rate/internal/store"
)

// session is an opened store bound to the current identity.
type session struct {
	store  store.Store
	remote bool
	userID string
}

func openSession(ctx context.Context, opt Options) (*session, error) {
	ti, err := auth.GetToken()
	if err != nil {
		logrus.WithError(err).Warn("ignoring unreadable credentials")
		ti = nil
	}
	token := ""
	if ti != nil {
		token = ti.Token
	}
	st, err := storage.Open(ctx, opt.Config, token)
	if err != nil {
		return nil, err
	}
	return &session{
		store:  st,
		remote: storage.Remote(opt.Config.Store),
		userID: auth.UserID(ti),
	}, nil
}

// authorized re-reads the token so a login in another shell is picked up.
func (s *session) authorized() bool {
	ti, err := auth.GetToken()
	if err != nil {
		return false
	}
	return auth.CanSave(ti, s.remote)
}

func (s *session) persister() store.Session {
	return store.Session{Store: s.store, UserID: s.userID}
}

func (s *session) board(ctx context.Context) (*board.Board, error) {
	seasons, err := s.store.Seasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("load seasons: %w", err)
	}
	ratings, err := s.store.Ratings(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	return board.New(seasons, ratings), nil
}

func (s *session) Close() error { return s.store.Close() }
