package domain

import "time"

// Run is a completed execution kept for later inspection or export.
type Run struct {
	ID        string     `json:"id" yaml:"id"`
	Key       int        `json:"key" yaml:"key"`
	Input     string     `json:"input" yaml:"input"`
	Output    string     `json:"output" yaml:"output"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	History   []Snapshot `json:"history" yaml:"history"`
}

// Clone returns a deep copy so stores never share tapes with callers.
func (r *Run) Clone() *Run {
	cp := *r
	cp.History = CloneHistory(r.History)
	return &cp
}
