package console

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Format: "json", Output: &buf})
	l.Info("analysis finished", "document_id", "doc-1")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if line["msg"] != "analysis finished" || line["document_id"] != "doc-1" {
		t.Fatalf("unexpected line: %v", line)
	}
}

func TestLogger_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"logfmt", "document_id=doc-1"},
		{"LOGFMT", "document_id=doc-1"},
		{"text", "document_id=doc-1"},
		{"xml", "document_id=doc-1"},
	}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			New(Options{Format: tc.format, Output: &buf}).Warn("slow segment", "document_id", "doc-1")
			if !strings.Contains(buf.String(), tc.want) || !strings.Contains(buf.String(), "slow segment") {
				t.Fatalf("output = %q", buf.String())
			}
		})
	}
}

func TestLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Output: &buf})
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %q", buf.String())
	}

	buf.Reset()
	l = New(Options{Debug: true, Output: &buf})
	l.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug missing: %q", buf.String())
	}
}
