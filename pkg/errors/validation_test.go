package errors

import (
	"strings"
	"testing"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		max     int
		code    Code
		wantErr bool
	}{
		{"valid flowchart", "flowchart LR\nA-->B", 100, "", false},
		{"empty", "", 100, "", false},
		{"no limit", strings.Repeat("a", 1000), 0, "", false},
		{"at limit", strings.Repeat("a", 10), 10, "", false},

		{"too large", strings.Repeat("a", 11), 10, ErrCodeInputTooLarge, true},
		{"invalid utf8", "graph TD\n\xff", 100, ErrCodeInvalidInput, true},
		{"null byte", "graph TD\x00", 100, ErrCodeInvalidInput, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.input, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !Is(err, tt.code) {
				t.Errorf("ValidateText() code = %v, want %v", GetCode(err), tt.code)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"file and index", "README.md#2", false},
		{"unicode", "diagramme-été", false},

		{"too long", strings.Repeat("n", 300), true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "out.svg", false},
		{"valid nested", "build/diagrams/flow.svg", false},
		{"valid absolute", "/tmp/flow.png", false},
		{"valid dots in name", "flow..v2.svg", false},
		{"valid parent dir", "../out.svg", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "out\x00.svg", true},
		{"control char", "out\x01.svg", true},
		{"directory", "build/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},
		{"rediss", "rediss://cache:6380", []string{"redis", "rediss"}, false},
		{"mongo srv", "mongodb+srv://cluster.example.net", []string{"mongodb", "mongodb+srv"}, false},

		{"empty", "", []string{"redis"}, true},
		{"wrong scheme", "http://localhost:6379", []string{"redis", "rediss"}, true},
		{"no scheme", "localhost:6379", []string{"redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
