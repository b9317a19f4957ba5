package logsvc

import (
	"sync"

	"github.com/trezcool/skillxp/core"
)

type (
	// Entry is one call recorded by a Recorder.
	Entry struct {
		Level string
		Msg   string
		Args  []interface{}
	}

	// Recorder keeps log entries in memory. For tests.
	Recorder struct {
		mu      sync.Mutex
		entries []Entry
	}
)

var _ core.Logger = (*Recorder)(nil)

func NewRecorder() *Recorder { return new(Recorder) }

func (r *Recorder) record(level, msg string, args []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Args: args})
}

// Entries returns the recorded entries of level, or all of them when level is empty.
func (r *Recorder) Entries(level string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if level == "" || e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}

func (r *Recorder) Debug(msg string, args ...interface{}) { r.record("DEBUG", msg, args) }
func (r *Recorder) Info(msg string, args ...interface{})  { r.record("INFO", msg, args) }
func (r *Recorder) Warn(msg string, args ...interface{})  { r.record("WARN", msg, args) }
func (r *Recorder) Error(msg string, args ...interface{}) { r.record("ERROR", msg, args) }
func (r *Recorder) Fatal(msg string, args ...interface{}) { r.record("FATAL", msg, args) }
