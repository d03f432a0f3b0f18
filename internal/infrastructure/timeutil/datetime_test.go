package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSupplierDateTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "local time with seconds",
			input: "2025-12-15T06:00:00",
			want:  time.Date(2025, 12, 15, 6, 0, 0, 0, time.UTC),
		},
		{
			name:  "local time without seconds",
			input: "2025-12-15T06:05",
			want:  time.Date(2025, 12, 15, 6, 5, 0, 0, time.UTC),
		},
		{
			name:  "with offset",
			input: "2025-12-15T06:00:00+07:00",
			want:  time.Date(2025, 12, 14, 23, 0, 0, 0, time.UTC),
		},
		{
			name:    "date only",
			input:   "2025-12-15",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSupplierDateTime(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}
