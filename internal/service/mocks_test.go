package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hospital-management-backend/internal/models"
	"hospital-management-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memoryCounterStore is an in-process CounterStore
type memoryCounterStore struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemoryCounterStore() *memoryCounterStore {
	return &memoryCounterStore{seqs: map[string]int64{}}
}

func (m *memoryCounterStore) SeedCounter(_ context.Context, name string, start int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seqs[name]; !ok {
		m.seqs[name] = start
	}
	return nil
}

func (m *memoryCounterStore) ReserveNext(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[name]++
	return m.seqs[name], nil
}

// memoryPatientStore is an in-process PatientStore with a unique MRN index
type memoryPatientStore struct {
	mu          sync.Mutex
	byID        map[string]models.Patient
	order       []string
	lastColumns []string
	clock       time.Time
}

func newMemoryPatientStore() *memoryPatientStore {
	return &memoryPatientStore{
		byID:  map[string]models.Patient{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryPatientStore) CreatePatient(_ context.Context, p *models.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.MRN == p.MRN {
			return repository.ErrDuplicateKey
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.clock = m.clock.Add(time.Second)
	p.CreatedAt, p.UpdatedAt = m.clock, m.clock
	m.byID[p.ID] = *p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memoryPatientStore) GetPatientByID(_ context.Context, id string) (*models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &p, nil
}

func (m *memoryPatientStore) GetPatientsByIDs(_ context.Context, ids []string) ([]models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Patient
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryPatientStore) newestFirst() []models.Patient {
	out := make([]models.Patient, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryPatientStore) GetAllPatients(_ context.Context) ([]models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newestFirst(), nil
}

func (m *memoryPatientStore) GetRecentPatients(_ context.Context, limit int) ([]models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.newestFirst()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memoryPatientStore) SearchPatients(_ context.Context, query string) ([]models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.Patient
	for _, id := range m.order {
		p := m.byID[id]
		if strings.Contains(strings.ToLower(p.MRN), q) || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryPatientStore) UpdatePatientColumns(_ context.Context, p *models.Patient, columns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	m.byID[p.ID] = *p
	m.lastColumns = columns
	return nil
}

func (m *memoryPatientStore) CountPatients(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *memoryPatientStore) CountPendingBills(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.byID {
		if !p.BillPaid {
			n++
		}
	}
	return n, nil
}

func (m *memoryPatientStore) CountPaidBills(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.byID {
		if p.BillPaid {
			n++
		}
	}
	return n, nil
}

// MockDoctorStore is a mock implementation of DoctorStore
type MockDoctorStore struct {
	mock.Mock
}

func (m *MockDoctorStore) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *MockDoctorStore) GetDoctorByID(ctx context.Context, id string) (*models.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Doctor), args.Error(1)
}

func (m *MockDoctorStore) GetDoctorsByIDs(ctx context.Context, ids []string) ([]models.Doctor, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Doctor), args.Error(1)
}

func (m *MockDoctorStore) GetAllDoctors(ctx context.Context) ([]models.Doctor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Doctor), args.Error(1)
}

func (m *MockDoctorStore) CountDoctors(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAppointmentStore is a mock implementation of AppointmentStore
type MockAppointmentStore struct {
	mock.Mock
}

func (m *MockAppointmentStore) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentStore) GetAllAppointments(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) CountAppointmentsOnDay(ctx context.Context, day, offset string) (int64, error) {
	args := m.Called(ctx, day, offset)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditStore is a mock implementation of AuditStore
type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// acceptingAudit returns an audit store that accepts every entry
func acceptingAudit() *MockAuditStore {
	audit := &MockAuditStore{}
	audit.On("RecordAudit", mock.Anything, mock.Anything).Return(nil)
	return audit
}

// MockUserStore is a mock implementation of UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) CountActiveUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserStore) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserStore) FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockUserStore) RevokeRefreshTokenByHash(ctx context.Context, hash string) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

func (m *MockUserStore) DeleteStaleRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
