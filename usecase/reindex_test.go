package usecase

import (
	"context"
	"errors"
	"testing"

	"sermon-search/indexer"
)

// Mock reindexer for testing
type mockReindexer struct {
	result indexer.BulkResult
	err    error
	calls  int
}

func (m *mockReindexer) ReindexAll(ctx context.Context) (indexer.BulkResult, error) {
	m.calls++
	if m.err != nil {
		return indexer.BulkResult{}, m.err
	}
	return m.result, nil
}

func TestReindex_Success(t *testing.T) {
	engine := &mockSearchEngine{available: true, forceResult: true}
	reindexer := &mockReindexer{result: indexer.BulkResult{Success: 40, Failed: 2}}
	u := NewReindexUsecase(engine, reindexer, quietLogger())

	report, err := u.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.JobID == "" {
		t.Error("JobID should be assigned")
	}
	if report.Success != 40 || report.Failed != 2 {
		t.Errorf("report = %+v", report)
	}
	if report.Duration < 0 {
		t.Errorf("Duration = %v", report.Duration)
	}
	if reindexer.calls != 1 {
		t.Errorf("reindexer calls = %d, want 1", reindexer.calls)
	}
}

func TestReindex_ForcesFreshProbeFirst(t *testing.T) {
	engine := &mockSearchEngine{forceResult: true}
	reindexer := &mockReindexer{}
	u := NewReindexUsecase(engine, reindexer, quietLogger())

	if _, err := u.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.forceCalls != 1 {
		t.Errorf("ForceReconnect calls = %d, want 1", engine.forceCalls)
	}
}

func TestReindex_FailurePropagates(t *testing.T) {
	engine := &mockSearchEngine{}
	reindexer := &mockReindexer{err: errors.New("engine unavailable")}
	u := NewReindexUsecase(engine, reindexer, quietLogger())

	report, err := u.Execute(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if report != nil {
		t.Errorf("report = %+v, want nil on failure", report)
	}
}

func TestReindex_JobIDsAreUnique(t *testing.T) {
	engine := &mockSearchEngine{forceResult: true}
	u := NewReindexUsecase(engine, &mockReindexer{}, quietLogger())

	first, err := u.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := u.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.JobID == second.JobID {
		t.Errorf("both runs got job id %q", first.JobID)
	}
}
