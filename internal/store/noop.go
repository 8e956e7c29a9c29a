package store

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error         { return nil }
func (n *NoopRecorder) ListRuns(_ int) ([]RunRecord, error)  { return nil, nil }
func (n *NoopRecorder) LoadRun(_ string) (*RunRecord, error) { return nil, ErrRunNotFound }
func (n *NoopRecorder) Close() error                         { return nil }
