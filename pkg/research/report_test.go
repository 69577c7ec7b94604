package research

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestWriteFinalReport(t *testing.T) {
	llm := &fakeLLM{reply: scriptedReply}
	w := NewReportWriter(llm, Config{Now: fixedNow})

	got, err := w.WriteFinalReport(context.Background(), "Initial Query: fusion",
		[]string{"L1", "L2"}, []string{"https://a.example", "https://b.example"})
	if err != nil {
		t.Fatalf("WriteFinalReport: %v", err)
	}

	want := "# Report\n\n## Sources\n\n- https://a.example\n- https://b.example"
	if got != want {
		t.Errorf("report =\n%q\nwant\n%q", got, want)
	}

	prompt := llm.prompts[0]
	for _, s := range []string{"<prompt>Initial Query: fusion</prompt>", "<learning>\nL1\n</learning>\n<learning>\nL2\n</learning>"} {
		if !strings.Contains(prompt, s) {
			t.Errorf("prompt missing %q:\n%s", s, prompt)
		}
	}
}

func TestWriteFinalReportNoSources(t *testing.T) {
	w := NewReportWriter(&fakeLLM{reply: scriptedReply}, Config{})

	got, err := w.WriteFinalReport(context.Background(), "p", nil, nil)
	if err != nil {
		t.Fatalf("WriteFinalReport: %v", err)
	}
	if got != "# Report\n\n## Sources\n\n" {
		t.Errorf("report = %q", got)
	}
}

func TestWriteFinalReportTrimsLearnings(t *testing.T) {
	llm := &fakeLLM{reply: scriptedReply}
	w := NewReportWriter(llm, Config{MaxLearningChars: 30})

	long := strings.Repeat("x", 100)
	if _, err := w.WriteFinalReport(context.Background(), "p", []string{long}, nil); err != nil {
		t.Fatalf("WriteFinalReport: %v", err)
	}
	if strings.Contains(llm.prompts[0], long) {
		t.Error("learnings block was not trimmed")
	}
	if !strings.Contains(llm.prompts[0], "<learning>\n"+strings.Repeat("x", 30-len("<learning>\n"))+"\n</learnings>") {
		t.Errorf("unexpected trimmed block:\n%s", llm.prompts[0])
	}
}

func TestWriteFinalReportError(t *testing.T) {
	w := NewReportWriter(&fakeLLM{reply: func(string) (string, error) {
		return "", errors.New("context length exceeded")
	}}, Config{})

	_, err := w.WriteFinalReport(context.Background(), "p", []string{"l"}, nil)
	if err == nil || !strings.Contains(err.Error(), "context length exceeded") {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
}

func TestTrimRunes(t *testing.T) {
	if got := trimRunes("héllo", 2); got != "hé" {
		t.Errorf("trimRunes = %q, want %q", got, "hé")
	}
	if got := trimRunes("abc", 10); got != "abc" {
		t.Errorf("trimRunes = %q", got)
	}
}
