package chi

import (
	"reflect"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     recommendRequest
		wantLoc []string
	}{
		{"valid minimal", recommendRequest{Text: strPtr("x")}, nil},
		{"valid full", recommendRequest{Text: strPtr("x"), MaxDuration: intPtr(0), TestTypes: []string{"Cognitive"}}, nil},
		{"missing text", recommendRequest{}, []string{"body", "text"}},
		{"negative duration", recommendRequest{Text: strPtr("x"), MaxDuration: intPtr(-3)}, []string{"body", "max_duration"}},
		{"oversized test type", recommendRequest{Text: strPtr("x"), TestTypes: []string{"ok", strings.Repeat("a", 201)}},
			[]string{"body", "test_types", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateRequest(&tt.req)
			if tt.wantLoc == nil {
				if errs != nil {
					t.Fatalf("unexpected errors %+v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %+v", errs)
			}
			if !reflect.DeepEqual(errs[0].Loc, tt.wantLoc) {
				t.Errorf("loc: got %v, want %v", errs[0].Loc, tt.wantLoc)
			}
			if errs[0].Msg == "" || errs[0].Type == "" {
				t.Errorf("expected message and type, got %+v", errs[0])
			}
		})
	}
}

func TestRecommendRequest_ToQuery(t *testing.T) {
	q := recommendRequest{Text: strPtr("java"), MaxDuration: intPtr(40), TestTypes: []string{"Skills"}}.toQuery()
	if q.Text != "java" || q.MaxDuration != 40 || !reflect.DeepEqual(q.TestTypes, []string{"Skills"}) {
		t.Errorf("unexpected query %+v", q)
	}

	empty := recommendRequest{}.toQuery()
	if empty.Text != "" || empty.MaxDuration != 0 || empty.TestTypes != nil {
		t.Errorf("unexpected query %+v", empty)
	}
}
