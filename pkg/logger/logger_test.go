package logger

import (
	"reflect"
	"testing"
)

type call struct {
	level   string
	message string
	keyvals []any
}

type recorder struct {
	calls []call
}

func (r *recorder) add(level, message string, keyvals []any) {
	r.calls = append(r.calls, call{level: level, message: message, keyvals: keyvals})
}

func (r *recorder) Log(m string, kv ...any)   { r.add("log", m, kv) }
func (r *recorder) Debug(m string, kv ...any) { r.add("debug", m, kv) }
func (r *recorder) Info(m string, kv ...any)  { r.add("info", m, kv) }
func (r *recorder) Warn(m string, kv ...any)  { r.add("warn", m, kv) }
func (r *recorder) Error(m string, kv ...any) { r.add("error", m, kv) }
func (r *recorder) Fatal(m string, kv ...any) { r.add("fatal", m, kv) }

func TestDispatch_AllBackends(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	t.Cleanup(func() { singleton = nil })

	Info("hello", "k", 1)
	Log("plain", "x", "y")

	for _, r := range []*recorder{a, b} {
		if len(r.calls) != 2 {
			t.Fatalf("calls = %d, want 2", len(r.calls))
		}
		if r.calls[1].level != "log" || !reflect.DeepEqual(r.calls[1].keyvals, []any{"x", "y"}) {
			t.Fatalf("Log dropped keyvals: %+v", r.calls[1])
		}
	}
}

func TestScoped_PrependsKeyvals(t *testing.T) {
	r := &recorder{}
	Init(r)
	t.Cleanup(func() { singleton = nil })

	With("document_id", "doc-1").Warn("segment failed", "segment_id", "s1")

	want := []any{"document_id", "doc-1", "segment_id", "s1"}
	if len(r.calls) != 1 || !reflect.DeepEqual(r.calls[0].keyvals, want) {
		t.Fatalf("keyvals = %+v, want %+v", r.calls, want)
	}
}

func TestNoInit_NoPanic(t *testing.T) {
	singleton = nil
	Error("dropped")
}
