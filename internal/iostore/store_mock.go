package iostore

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetReportStore implements the StoreManager interface.
func (m *MockStoreManager) GetReportStore() contract.ReportStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReportStore)
	return store
}

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// GetScheduleStore implements the StoreManager interface.
func (m *MockStoreManager) GetScheduleStore() contract.ScheduleStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ScheduleStore)
	return store
}

// GetJobStore implements the StoreManager interface.
func (m *MockStoreManager) GetJobStore() contract.JobStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.JobStore)
	return store
}

// MockReportStore is a mock implementation of ReportStore for testing.
type MockReportStore struct {
	mock.Mock
}

var _ contract.ReportStore = &MockReportStore{} // Compile-time check

// GetReport implements the ReportStore interface.
func (m *MockReportStore) GetReport(ctx context.Context, url, period string) (*schema.Report, error) {
	args := m.Called(ctx, url, period)
	report, _ := args.Get(0).(*schema.Report)
	return report, args.Error(1)
}

// GetReportByID implements the ReportStore interface.
func (m *MockReportStore) GetReportByID(ctx context.Context, id string) (*schema.Report, error) {
	args := m.Called(ctx, id)
	report, _ := args.Get(0).(*schema.Report)
	return report, args.Error(1)
}

// PutReport implements the ReportStore interface.
func (m *MockReportStore) PutReport(ctx context.Context, report *schema.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// GetAllReportRecords implements the ReportStore interface.
func (m *MockReportStore) GetAllReportRecords(ctx context.Context) ([]schema.ReportRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.ReportRecord)
	return records, args.Error(1)
}

// GetStatus implements the ReportStore interface.
func (m *MockReportStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the ReportStore interface.
func (m *MockReportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// GetHistory implements the HistoryStore interface.
func (m *MockHistoryStore) GetHistory(ctx context.Context, url string, periodCount int) ([]schema.HistoricalPoint, error) {
	args := m.Called(ctx, url, periodCount)
	points, _ := args.Get(0).([]schema.HistoricalPoint)
	return points, args.Error(1)
}

// AppendPoint implements the HistoryStore interface.
func (m *MockHistoryStore) AppendPoint(ctx context.Context, url string, point schema.HistoricalPoint) error {
	args := m.Called(ctx, url, point)
	return args.Error(0)
}

// GetAllHistoryRecords implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllHistoryRecords(ctx context.Context) ([]schema.HistoryRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.HistoryRecord)
	return records, args.Error(1)
}

// MockScheduleStore is a mock implementation of ScheduleStore for testing.
type MockScheduleStore struct {
	mock.Mock
}

var _ contract.ScheduleStore = &MockScheduleStore{} // Compile-time check

// AddSchedule implements the ScheduleStore interface.
func (m *MockScheduleStore) AddSchedule(ctx context.Context, entry *schema.ScheduleEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// ListSchedules implements the ScheduleStore interface.
func (m *MockScheduleStore) ListSchedules(ctx context.Context) ([]schema.ScheduleEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]schema.ScheduleEntry)
	return entries, args.Error(1)
}

// MockJobStore is a mock implementation of JobStore for testing.
type MockJobStore struct {
	mock.Mock
}

var _ contract.JobStore = &MockJobStore{} // Compile-time check

// CreateJob implements the JobStore interface.
func (m *MockJobStore) CreateJob(ctx context.Context, job *schema.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// GetJob implements the JobStore interface.
func (m *MockJobStore) GetJob(ctx context.Context, id string) (*schema.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*schema.Job)
	return job, args.Error(1)
}

// UpdateJob implements the JobStore interface.
func (m *MockJobStore) UpdateJob(ctx context.Context, id string, mutate func(*schema.Job) error) error {
	args := m.Called(ctx, id, mutate)
	return args.Error(0)
}

// FindActiveJob implements the JobStore interface.
func (m *MockJobStore) FindActiveJob(ctx context.Context, url, period string) (*schema.Job, error) {
	args := m.Called(ctx, url, period)
	job, _ := args.Get(0).(*schema.Job)
	return job, args.Error(1)
}

// ListJobs implements the JobStore interface.
func (m *MockJobStore) ListJobs(ctx context.Context) ([]schema.Job, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]schema.Job)
	return jobs, args.Error(1)
}

// CountActive implements the JobStore interface.
func (m *MockJobStore) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
