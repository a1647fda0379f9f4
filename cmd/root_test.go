package cmd

import (
	"fmt"
	"testing"

	"gnbtest/internal/harness"

	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "interrupted batch maps to 130",
			err:  harness.ErrInterrupted,
			want: ExitCodeInterrupted,
		},
		{
			name: "wrapped interruption maps to 130",
			err:  fmt.Errorf("batch run failed: %w", harness.ErrInterrupted),
			want: ExitCodeInterrupted,
		},
		{
			name: "preflight failure maps to 2",
			err:  fmt.Errorf("%w: binary not found", harness.ErrPreflight),
			want: ExitCodePreflight,
		},
		{
			name: "empty input directory maps to 2",
			err:  fmt.Errorf("%w in /tmp/cases", harness.ErrNoInputFiles),
			want: ExitCodePreflight,
		},
		{
			name: "generic error maps to 1",
			err:  fmt.Errorf("something broke"),
			want: ExitCodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestSetVersion(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())
}
