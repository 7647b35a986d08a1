package history

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func sampleExchanges() []Exchange {
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []Exchange{
		{SessionID: "s1", Agent: "CECE", Message: "hi", Reply: "hello", CreatedAt: base},
		{SessionID: "s1", Agent: "CECE", Message: "you there?", Reply: "[CECE] Gateway offline. Message queued: 'you there?'", Offline: true, CreatedAt: base.Add(time.Minute)},
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ExportFormat
		wantErr bool
	}{
		{"", ExportFormatMarkdown, false},
		{"md", ExportFormatMarkdown, false},
		{"Markdown", ExportFormatMarkdown, false},
		{" json ", ExportFormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseExportFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExportFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseExportFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExportMarkdown(t *testing.T) {
	out := ExportMarkdown("s1", sampleExchanges())

	for _, want := range []string{
		"# CECE session",
		"**Session:** s1",
		"**Exchanges:** 2",
		"hi\n\n## CECE\n\nhello",
		"## CECE (offline)",
		"Message queued: 'you there?'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}

	if strings.Count(out, "\n---\n") != 2 {
		t.Errorf("expected a header rule and one separator:\n%s", out)
	}
}

func TestExportMarkdown_Empty(t *testing.T) {
	out := ExportMarkdown("s1", nil)
	if !strings.Contains(out, "**Exchanges:** 0") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "**Started:**") {
		t.Error("empty transcript has no start time")
	}
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON("s1", sampleExchanges())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var got struct {
		SessionID string `json:"session_id"`
		Agent     string `json:"agent"`
		Exchanges []struct {
			Message   string `json:"message"`
			Reply     string `json:"reply"`
			Offline   bool   `json:"offline"`
			Timestamp string `json:"timestamp"`
		} `json:"exchanges"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if got.SessionID != "s1" || got.Agent != "CECE" {
		t.Errorf("header = %q/%q", got.SessionID, got.Agent)
	}
	if len(got.Exchanges) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(got.Exchanges))
	}
	if got.Exchanges[0].Offline || !got.Exchanges[1].Offline {
		t.Errorf("offline flags = %v, %v", got.Exchanges[0].Offline, got.Exchanges[1].Offline)
	}
	if got.Exchanges[0].Timestamp != "2026-03-14T09:30:00.000Z" {
		t.Errorf("timestamp = %q", got.Exchanges[0].Timestamp)
	}
}

func TestStore_Export(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, e := range sampleExchanges() {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	md, err := store.Export(ctx, "s1", ExportFormatMarkdown)
	if err != nil {
		t.Fatalf("Export markdown failed: %v", err)
	}
	if !strings.Contains(string(md), "**Session:** s1") {
		t.Errorf("unexpected markdown:\n%s", md)
	}

	js, err := store.Export(ctx, "s1", ExportFormatJSON)
	if err != nil {
		t.Fatalf("Export json failed: %v", err)
	}
	if !strings.Contains(string(js), `"message": "hi"`) {
		t.Errorf("unexpected JSON:\n%s", js)
	}

	if _, err := store.Export(ctx, "missing", ExportFormatJSON); err == nil {
		t.Error("expected error for unknown session")
	}
}
