package domain

import (
	"errors"
	"testing"
)

func TestQuery_Filters(t *testing.T) {
	if (Query{}).HasDurationLimit() || (Query{}).HasTypeFilter() {
		t.Error("zero query should not filter")
	}
	if !(Query{MaxDuration: 1}).HasDurationLimit() {
		t.Error("positive max duration should filter")
	}
	if !(Query{TestTypes: []string{"Cognitive"}}).HasTypeFilter() {
		t.Error("non-empty test types should filter")
	}
	if (Query{TestTypes: []string{}}).HasTypeFilter() {
		t.Error("empty test types should not filter")
	}
}

func TestQuery_Validate(t *testing.T) {
	if err := (Query{Text: "Java developer", MaxDuration: 40}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Query{}).Validate(); err != nil {
		t.Errorf("empty query is valid, got %v", err)
	}

	err := (Query{MaxDuration: -1}).Validate()
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	var iqe *InvalidQueryError
	if !errors.As(err, &iqe) || iqe.Reason == "" {
		t.Errorf("expected reason, got %v", err)
	}

	if err := (Query{Text: "a\x00b"}).Validate(); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery for NUL, got %v", err)
	}
}

func TestAnalysisPrompt(t *testing.T) {
	want := "Analyze this text and provide key skills and requirements: Java developer"
	if got := AnalysisPrompt("Java developer"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
