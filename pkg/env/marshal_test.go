package env

import (
	"testing"
	"time"
)

type sample struct {
	Name    string        `env:"NAME,required"`
	Port    int           `env:"PORT"`
	Debug   bool          `env:"DEBUG"`
	Timeout time.Duration `env:"TIMEOUT"`
	Scopes  []string      `env:"SCOPES" envSeparator:","`
	Secret  string        `env:"SECRET"`
	NoTag   string
	hidden  string `env:"HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	in := &sample{
		Name:    "askbot",
		Port:    3000,
		Debug:   true,
		Timeout: 10 * time.Second,
		Scopes:  []string{"chat:write", "im:history"},
		NoTag:   "ignored",
		hidden:  "ignored",
	}

	tests := []struct {
		name         string
		includeEmpty bool
		expected     string
	}{
		{
			name:     "skip empty",
			expected: "NAME=askbot\nPORT=3000\nDEBUG=true\nTIMEOUT=10s\nSCOPES=chat:write,im:history\n",
		},
		{
			name:         "template with empty keys",
			includeEmpty: true,
			expected:     "NAME=askbot\nPORT=3000\nDEBUG=true\nTIMEOUT=10s\nSCOPES=chat:write,im:history\nSECRET=\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalEnv(in, tt.includeEmpty)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("MarshalEnv() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMarshalEnv_RejectsNonStructPointer(t *testing.T) {
	if _, err := MarshalEnv(sample{}, false); err == nil {
		t.Error("expected error for non-pointer input")
	}
	s := "x"
	if _, err := MarshalEnv(&s, false); err == nil {
		t.Error("expected error for pointer to non-struct")
	}
}

func TestMarshalEnv_AllEmpty(t *testing.T) {
	got, err := MarshalEnv(&sample{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
