package storage

import (
	"sort"

	"github.com/fenixcs/fieldtracker/internal/models"
)

func (s *MemoryStorage) GetMaterial(id string) (models.Material, error) {
	s.mmx.RLock()
	defer s.mmx.RUnlock()

	v, exists := s.materials[id]
	if !exists {
		return models.Material{}, ErrNotFound
	}

	return v, nil
}

func (s *MemoryStorage) InsertMaterial(v models.Material) error {
	s.mmx.Lock()
	defer s.mmx.Unlock()

	if _, exists := s.materials[v.ID]; exists {
		return ErrConflict
	}

	if s.keeper != nil {
		if err := s.keeper.SaveMaterial(v); err != nil {
			return err
		}
	}

	s.materials[v.ID] = v

	return nil
}

func (s *MemoryStorage) UpdateMaterial(v models.Material) error {
	s.mmx.Lock()
	defer s.mmx.Unlock()

	if _, exists := s.materials[v.ID]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.UpdateMaterial(v); err != nil {
			return err
		}
	}

	s.materials[v.ID] = v

	return nil
}

func (s *MemoryStorage) DeleteMaterial(id string) error {
	s.mmx.Lock()
	defer s.mmx.Unlock()

	if _, exists := s.materials[id]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.DeleteMaterial(id); err != nil {
			return err
		}
	}

	delete(s.materials, id)

	return nil
}

func (s *MemoryStorage) GetMaterials(filter models.MaterialFilter, p models.Pagination) ([]models.Material, error) {
	s.mmx.RLock()

	result := make([]models.Material, 0, len(s.materials))
	for _, v := range s.materials {
		if !matches(filter.Project, v.Project) ||
			!matches(filter.Worksite, v.Worksite) ||
			!matches(filter.Supplier, v.Supplier) {
			continue
		}
		result = append(result, v)
	}
	s.mmx.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].PurchaseDate.After(result[j].PurchaseDate)
	})

	return paginate(result, p), nil
}
