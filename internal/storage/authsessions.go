package storage

import (
	"time"

	"github.com/fenixcs/fieldtracker/internal/models"
)

func (s *MemoryStorage) GetAuthSession(token string) (models.AuthSession, error) {
	s.amx.RLock()
	defer s.amx.RUnlock()

	v, exists := s.authSessions[token]
	if !exists {
		return models.AuthSession{}, ErrNotFound
	}

	return v, nil
}

func (s *MemoryStorage) InsertAuthSession(v models.AuthSession) error {
	s.amx.Lock()
	defer s.amx.Unlock()

	if _, exists := s.authSessions[v.Token]; exists {
		return ErrConflict
	}

	if s.keeper != nil {
		if err := s.keeper.SaveAuthSession(v); err != nil {
			return err
		}
	}

	s.authSessions[v.Token] = v

	return nil
}

// TouchAuthSession updates the last-accessed timestamp of a session.
func (s *MemoryStorage) TouchAuthSession(token string, at time.Time) error {
	s.amx.Lock()
	defer s.amx.Unlock()

	v, exists := s.authSessions[token]
	if !exists {
		return ErrNotFound
	}

	v.LastAccessedAt = at

	if s.keeper != nil {
		if err := s.keeper.UpdateAuthSession(v); err != nil {
			return err
		}
	}

	s.authSessions[token] = v

	return nil
}

func (s *MemoryStorage) DeleteAuthSession(token string) error {
	s.amx.Lock()
	defer s.amx.Unlock()

	if _, exists := s.authSessions[token]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.DeleteAuthSession(token); err != nil {
			return err
		}
	}

	delete(s.authSessions, token)

	return nil
}

// DeleteExpiredAuthSessions removes sessions past their expiry and returns
// how many were dropped.
func (s *MemoryStorage) DeleteExpiredAuthSessions(now time.Time) (int, error) {
	s.amx.Lock()
	defer s.amx.Unlock()

	var removed int
	for token, v := range s.authSessions {
		if !v.Expired(now) {
			continue
		}

		if s.keeper != nil {
			if err := s.keeper.DeleteAuthSession(token); err != nil {
				return removed, err
			}
		}

		delete(s.authSessions, token)
		removed++
	}

	return removed, nil
}
