package storage

import (
	"errors"
	"sync"

	"github.com/fenixcs/fieldtracker/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a data conflict in the store.
	ErrConflict = errors.New("data conflict")
)

type (
	StorageEmployees    = map[string]models.Employee
	StorageVehicles     = map[string]models.Vehicle
	StorageWorkSessions = map[string]models.WorkSession
	StorageFiles        = map[string]models.FileRecord
	StorageMaterials    = map[string]models.Material
	StorageAuthSessions = map[string]models.AuthSession
)

type Log interface {
	Info(string, ...zapcore.Field)
}

// Keeper is the persistent backend behind the in-memory cache.
type Keeper interface {
	LoadEmployees() (StorageEmployees, error)
	SaveEmployee(models.Employee) error
	UpdateEmployee(models.Employee) error
	DeleteEmployee(string) error

	LoadVehicles() (StorageVehicles, error)
	SaveVehicle(models.Vehicle) error
	UpdateVehicle(models.Vehicle) error
	DeleteVehicle(string) error

	LoadWorkSessions() (StorageWorkSessions, error)
	SaveWorkSession(models.WorkSession) error
	UpdateWorkSession(models.WorkSession) error
	DeleteWorkSession(string) error

	LoadFiles() (StorageFiles, error)
	SaveFile(models.FileRecord) error
	UpdateFile(models.FileRecord) error

	LoadMaterials() (StorageMaterials, error)
	SaveMaterial(models.Material) error
	UpdateMaterial(models.Material) error
	DeleteMaterial(string) error

	LoadAuthSessions() (StorageAuthSessions, error)
	SaveAuthSession(models.AuthSession) error
	UpdateAuthSession(models.AuthSession) error
	DeleteAuthSession(string) error

	Ping() bool
	Close() bool
}

// MemoryStorage holds all entities in memory and writes through to the
// keeper. A nil keeper keeps everything purely in memory (tests).
type MemoryStorage struct {
	emx          sync.RWMutex
	vmx          sync.RWMutex
	smx          sync.RWMutex
	fmx          sync.RWMutex
	mmx          sync.RWMutex
	amx          sync.RWMutex
	employees    StorageEmployees
	vehicles     StorageVehicles
	workSessions StorageWorkSessions
	files        StorageFiles
	materials    StorageMaterials
	authSessions StorageAuthSessions
	keeper       Keeper
	log          Log
}

func NewMemoryStorage(keeper Keeper, log Log) *MemoryStorage {
	s := &MemoryStorage{
		employees:    make(StorageEmployees),
		vehicles:     make(StorageVehicles),
		workSessions: make(StorageWorkSessions),
		files:        make(StorageFiles),
		materials:    make(StorageMaterials),
		authSessions: make(StorageAuthSessions),
		keeper:       keeper,
		log:          log,
	}

	if keeper == nil {
		return s
	}

	var err error

	if s.employees, err = keeper.LoadEmployees(); err != nil {
		log.Info("cannot load employee data: ", zap.Error(err))
		s.employees = make(StorageEmployees)
	}
	if s.vehicles, err = keeper.LoadVehicles(); err != nil {
		log.Info("cannot load vehicle data: ", zap.Error(err))
		s.vehicles = make(StorageVehicles)
	}
	if s.workSessions, err = keeper.LoadWorkSessions(); err != nil {
		log.Info("cannot load work session data: ", zap.Error(err))
		s.workSessions = make(StorageWorkSessions)
	}
	if s.files, err = keeper.LoadFiles(); err != nil {
		log.Info("cannot load file data: ", zap.Error(err))
		s.files = make(StorageFiles)
	}
	if s.materials, err = keeper.LoadMaterials(); err != nil {
		log.Info("cannot load material data: ", zap.Error(err))
		s.materials = make(StorageMaterials)
	}
	if s.authSessions, err = keeper.LoadAuthSessions(); err != nil {
		log.Info("cannot load auth session data: ", zap.Error(err))
		s.authSessions = make(StorageAuthSessions)
	}

	return s
}

func (s *MemoryStorage) GetBaseConnection() bool {
	if s.keeper == nil {
		return false
	}

	return s.keeper.Ping()
}

// matches reports whether the value satisfies an optional filter field.
func matches(filter *string, value string) bool {
	return filter == nil || *filter == value
}

// paginate applies offset/limit to an already sorted slice.
func paginate[T any](items []T, p models.Pagination) []T {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return nil
		}
		items = items[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}

	return items
}
