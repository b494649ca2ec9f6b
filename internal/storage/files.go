package storage

import (
	"sort"

	"github.com/fenixcs/fieldtracker/internal/models"
)

func (s *MemoryStorage) GetFile(id string) (models.FileRecord, error) {
	s.fmx.RLock()
	defer s.fmx.RUnlock()

	v, exists := s.files[id]
	if !exists {
		return models.FileRecord{}, ErrNotFound
	}

	return v, nil
}

func (s *MemoryStorage) InsertFile(v models.FileRecord) error {
	s.fmx.Lock()
	defer s.fmx.Unlock()

	if _, exists := s.files[v.ID]; exists {
		return ErrConflict
	}

	if s.keeper != nil {
		if err := s.keeper.SaveFile(v); err != nil {
			return err
		}
	}

	s.files[v.ID] = v

	return nil
}

func (s *MemoryStorage) UpdateFile(v models.FileRecord) error {
	s.fmx.Lock()
	defer s.fmx.Unlock()

	if _, exists := s.files[v.ID]; !exists {
		return ErrNotFound
	}

	if s.keeper != nil {
		if err := s.keeper.UpdateFile(v); err != nil {
			return err
		}
	}

	s.files[v.ID] = v

	return nil
}

// GetFiles lists file records newest first.
func (s *MemoryStorage) GetFiles(filter models.FileFilter, p models.Pagination) ([]models.FileRecord, error) {
	s.fmx.RLock()

	result := make([]models.FileRecord, 0, len(s.files))
	for _, v := range s.files {
		if !matches(filter.Category, v.Category) ||
			!matches(filter.UploadedBy, v.UploadedBy) ||
			!matches(filter.UploadedByType, v.UploadedByType) ||
			!matches(filter.Status, v.Status) {
			continue
		}
		result = append(result, v)
	}
	s.fmx.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadDate.After(result[j].UploadDate)
	})

	return paginate(result, p), nil
}
