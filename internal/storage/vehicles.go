package storage

import (
	"sort"

	"github.com/fenixcs/fieldtracker/internal/models"
)

func (s *MemoryStorage) GetVehicle(id string) (models.Vehicle, error) {
	s.vmx.RLock()
	defer s.vmx.RUnlock()

	v, exists := s.vehicles[id]
	if !exists {
		return models.Vehicle{}, ErrNotFound
	}

	return v, nil
}

func (s *MemoryStorage) InsertVehicle(v models.Vehicle) error {
	s.vmx.Lock()
	defer s.vmx.Unlock()

	if _, exists := s.vehicles[v.ID]; exists {
		return ErrConflict
	}

	if s.keeper != nil {
		if err := s.keeper.SaveVehicle(v); err != nil {
			return err
		}
	}

	s.vehicles[v.ID] = v

	return nil
}

func (s *MemoryStorage) UpdateVehicle(v models.Vehicle) error {
	s.vmx.Lock()
	defer s.vmx.Unlock()

	if _, exists := s.vehicles[v.ID]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.UpdateVehicle(v); err != nil {
			return err
		}
	}

	s.vehicles[v.ID] = v

	return nil
}

func (s *MemoryStorage) DeleteVehicle(id string) error {
	s.vmx.Lock()
	defer s.vmx.Unlock()

	if _, exists := s.vehicles[id]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.DeleteVehicle(id); err != nil {
			return err
		}
	}

	delete(s.vehicles, id)

	return nil
}

func (s *MemoryStorage) GetVehicles(filter models.VehicleFilter, p models.Pagination) ([]models.Vehicle, error) {
	s.vmx.RLock()

	result := make([]models.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if !matches(filter.Name, v.Name) ||
			!matches(filter.LicensePlate, v.LicensePlate) ||
			!matches(filter.Status, v.Status) {
			continue
		}
		result = append(result, v)
	}
	s.vmx.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return paginate(result, p), nil
}
