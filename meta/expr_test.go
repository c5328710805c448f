package meta

import (
	"os"
	"testing"
)

func TestExpandEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		input    string
		expected string
	}{
		{
			name:     "no expressions",
			input:    "just a plain string",
			expected: "just a plain string",
		},
		{
			name:     "single expression",
			env:      map[string]string{"FOO": "bar"},
			input:    "value is ${env.FOO}",
			expected: "value is bar",
		},
		{
			name:     "multiple expressions",
			env:      map[string]string{"A": "1", "B": "2"},
			input:    "${env.A}-${env.B}-${env.A}",
			expected: "1-2-1",
		},
		{
			name:     "unset variable becomes empty",
			input:    "unset=${env.NOTSET}-end",
			expected: "unset=-end",
		},
		{
			name:     "missing closing brace stays literal",
			env:      map[string]string{"X": "x"},
			input:    "start ${env.X and ${env.Y} end",
			expected: "start ${env.X and  end",
		},
		{
			name:     "empty key",
			input:    "oops ${env.} done",
			expected: "oops  done",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, key := range []string{"FOO", "A", "B", "X", "Y", "NOTSET"} {
				os.Unsetenv(key)
			}
			for k, v := range tc.env {
				os.Setenv(k, v)
			}
			got := expandEnv(tc.input)
			if got != tc.expected {
				t.Errorf("expandEnv(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}
