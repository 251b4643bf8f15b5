package history

import (
	"time"

	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(runUUID, suite, batch string, scoredAt time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(runUUID, suite, batch, scoredAt, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordFieldSummary implements the HistoryStore interface.
func (m *MockHistoryStore) RecordFieldSummary(runID int64, field schema.FieldSummary) error {
	args := m.Called(runID, field)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, totalChecks int, overallScore float64) error {
	args := m.Called(runID, totalChecks, overallScore)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.ScoreRunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ScoreRunRecord)
	return records, args.Error(1)
}

// GetAllFieldScores implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllFieldScores() ([]schema.FieldScoreRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.FieldScoreRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
