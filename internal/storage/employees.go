package storage

import (
	"sort"
	"strings"

	"github.com/fenixcs/fieldtracker/internal/models"
)

func (s *MemoryStorage) GetEmployee(id string) (models.Employee, error) {
	s.emx.RLock()
	defer s.emx.RUnlock()

	v, exists := s.employees[id]
	if !exists {
		return models.Employee{}, ErrNotFound
	}

	return v, nil
}

// GetEmployeeByEmail looks an employee up by login email, case-insensitive.
func (s *MemoryStorage) GetEmployeeByEmail(email string) (models.Employee, error) {
	s.emx.RLock()
	defer s.emx.RUnlock()

	for _, v := range s.employees {
		if strings.EqualFold(v.Email, email) {
			return v, nil
		}
	}

	return models.Employee{}, ErrNotFound
}

func (s *MemoryStorage) InsertEmployee(v models.Employee) error {
	s.emx.Lock()
	defer s.emx.Unlock()

	if _, exists := s.employees[v.ID]; exists {
		return ErrConflict
	}
	for _, e := range s.employees {
		if strings.EqualFold(e.Email, v.Email) {
			return ErrConflict
		}
	}

	if s.keeper != nil {
		if err := s.keeper.SaveEmployee(v); err != nil {
			return err
		}
	}

	s.employees[v.ID] = v

	return nil
}

func (s *MemoryStorage) UpdateEmployee(v models.Employee) error {
	s.emx.Lock()
	defer s.emx.Unlock()

	if _, exists := s.employees[v.ID]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.UpdateEmployee(v); err != nil {
			return err
		}
	}

	s.employees[v.ID] = v

	return nil
}

// DeleteEmployee removes the roster entry only. Previously recorded work
// sessions keep their employee fields untouched.
func (s *MemoryStorage) DeleteEmployee(id string) error {
	s.emx.Lock()
	defer s.emx.Unlock()

	if _, exists := s.employees[id]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.DeleteEmployee(id); err != nil {
			return err
		}
	}

	delete(s.employees, id)

	return nil
}

func (s *MemoryStorage) GetEmployees(filter models.EmployeeFilter, p models.Pagination) ([]models.Employee, error) {
	s.emx.RLock()

	result := make([]models.Employee, 0, len(s.employees))
	for _, v := range s.employees {
		if !matches(filter.Name, v.Name) ||
			!matches(filter.Email, v.Email) ||
			!matches(filter.Role, v.Role) ||
			!matches(filter.Status, v.Status) ||
			!matches(filter.Department, v.Department) {
			continue
		}
		result = append(result, v)
	}
	s.emx.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return paginate(result, p), nil
}
