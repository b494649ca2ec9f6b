package storage

import (
	"sort"

	"github.com/fenixcs/fieldtracker/internal/models"
)

func (s *MemoryStorage) GetWorkSession(id string) (models.WorkSession, error) {
	s.smx.RLock()
	defer s.smx.RUnlock()

	v, exists := s.workSessions[id]
	if !exists {
		return models.WorkSession{}, ErrNotFound
	}

	return v, nil
}

// GetActiveWorkSession returns the session in status working or break for
// the employee, or ErrNotFound. Nothing in the schema prevents duplicates;
// when several exist the most recently started one is returned.
func (s *MemoryStorage) GetActiveWorkSession(employeeID string) (models.WorkSession, error) {
	s.smx.RLock()
	defer s.smx.RUnlock()

	var (
		found  bool
		active models.WorkSession
	)

	for _, v := range s.workSessions {
		if v.EmployeeID != employeeID || !v.Status.Active() {
			continue
		}
		if !found || v.StartTime.After(active.StartTime) {
			active = v
			found = true
		}
	}

	if !found {
		return models.WorkSession{}, ErrNotFound
	}

	return active, nil
}

func (s *MemoryStorage) InsertWorkSession(v models.WorkSession) error {
	s.smx.Lock()
	defer s.smx.Unlock()

	if _, exists := s.workSessions[v.ID]; exists {
		return ErrConflict
	}

	if s.keeper != nil {
		if err := s.keeper.SaveWorkSession(v); err != nil {
			return err
		}
	}

	s.workSessions[v.ID] = v

	return nil
}

func (s *MemoryStorage) UpdateWorkSession(v models.WorkSession) error {
	s.smx.Lock()
	defer s.smx.Unlock()

	if _, exists := s.workSessions[v.ID]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.UpdateWorkSession(v); err != nil {
			return err
		}
	}

	s.workSessions[v.ID] = v

	return nil
}

func (s *MemoryStorage) DeleteWorkSession(id string) error {
	s.smx.Lock()
	defer s.smx.Unlock()

	if _, exists := s.workSessions[id]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.DeleteWorkSession(id); err != nil {
			return err
		}
	}

	delete(s.workSessions, id)

	return nil
}

// GetWorkSessions lists sessions newest first.
func (s *MemoryStorage) GetWorkSessions(filter models.SessionFilter, p models.Pagination) ([]models.WorkSession, error) {
	s.smx.RLock()

	result := make([]models.WorkSession, 0, len(s.workSessions))
	for _, v := range s.workSessions {
		if filter.EmployeeID != nil && v.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(v.Status) != *filter.Status {
			continue
		}
		if filter.From != nil && v.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && v.StartTime.After(*filter.To) {
			continue
		}
		result = append(result, v)
	}
	s.smx.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})

	return paginate(result, p), nil
}
