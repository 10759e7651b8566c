// Package iostore is for durable report, history and job storage.
package iostore

import (
	"sync"

	"github.com/sitepulse/sitepulse/internal/contract"
)

// StoreManagerImpl manages the store instances behind the contract
// interfaces. Reports, history and schedules share one SQL database;
// jobs live in memory for the duration of the process.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	reports      contract.ReportStore
	history      contract.HistoryStore
	schedules    contract.ScheduleStore
	jobs         contract.JobStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// NewStoreManager builds a manager around explicit store instances.
// Useful for wiring temporary stores in tests; main logic goes through
// the global Manager instead.
func NewStoreManager(reports contract.ReportStore, history contract.HistoryStore, schedules contract.ScheduleStore, jobs contract.JobStore) *StoreManagerImpl {
	return &StoreManagerImpl{
		reports:   reports,
		history:   history,
		schedules: schedules,
		jobs:      jobs,
	}
}

// GetReportStore returns the ReportStore.
func (mgr *StoreManagerImpl) GetReportStore() contract.ReportStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.reports
}

// GetHistoryStore returns the HistoryStore.
func (mgr *StoreManagerImpl) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// GetScheduleStore returns the ScheduleStore.
func (mgr *StoreManagerImpl) GetScheduleStore() contract.ScheduleStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.schedules
}

// GetJobStore returns the JobStore.
func (mgr *StoreManagerImpl) GetJobStore() contract.JobStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.jobs
}
