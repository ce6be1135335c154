package util

import "testing"

func TestTrimHelpers(t *testing.T) {
	if got := TrimAndLower("  JSON "); got != "json" {
		t.Fatalf("TrimAndLower = %q", got)
	}
	if s, ok := TrimEmptyCheck("  "); ok || s != "" {
		t.Fatalf("TrimEmptyCheck blank = %q, %v", s, ok)
	}
	if s, ok := TrimEmptyCheck(" x "); !ok || s != "x" {
		t.Fatalf("TrimEmptyCheck = %q, %v", s, ok)
	}
	if got := TrimWithDefault(" ", "info"); got != "info" {
		t.Fatalf("TrimWithDefault blank = %q", got)
	}
	if got := TrimWithDefault(" debug ", "info"); got != "debug" {
		t.Fatalf("TrimWithDefault = %q", got)
	}
}

func TestSplitKeyValue(t *testing.T) {
	cases := []struct {
		in       string
		key, val string
		wantErr  bool
	}{
		{in: "fields=id,name", key: "fields", val: "id,name"},
		{in: " limit =10", key: "limit", val: "10"},
		{in: "q=a=b", key: "q", val: "a=b"},
		{in: "empty=", key: "empty", val: ""},
		{in: "novalue", wantErr: true},
		{in: "=x", wantErr: true},
	}
	for _, tc := range cases {
		k, v, err := SplitKeyValue(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SplitKeyValue(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || k != tc.key || v != tc.val {
			t.Fatalf("SplitKeyValue(%q) = %q, %q, %v", tc.in, k, v, err)
		}
	}
}
