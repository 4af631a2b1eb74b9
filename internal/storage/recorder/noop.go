package recorder

import "context"

// NoopRecorder discards history. It is used when no recorder is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(context.Context, *Snapshot) error { return nil }
func (n *NoopRecorder) History(context.Context, string, int) ([]Snapshot, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
