package llmjson

import (
	"errors"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"padding", "  \n{\"a\":1}\n\t", `{"a":1}`},
		{"text only", "not json", "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnmarshal(t *testing.T) {
	var out struct {
		Item string `json:"item"`
	}

	if err := Unmarshal("```json\n{\"item\":\"rice\"}\n```", &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out.Item != "rice" {
		t.Errorf("Item = %q, want rice", out.Item)
	}

	if err := Unmarshal("```\n```", &out); !errors.Is(err, ErrEmpty) {
		t.Errorf("Unmarshal(empty fences) error = %v, want ErrEmpty", err)
	}

	if err := Unmarshal("not json", &out); err == nil {
		t.Error("Unmarshal(not json) expected error")
	}
}
