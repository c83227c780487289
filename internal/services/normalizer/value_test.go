package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"100", "100", true},
		{" 12.50 ", "12.5", true},
		{"-3", "-3", true},
		{"+7", "7", true},
		{"1e3", "1000", true},
		{"-0.0", "0", true},
		{"", "0", false},
		{"abc", "0", false},
		{"$100", "0", false},
		{"1,000", "0", false},
		{"NaN", "0", false},
		{"Inf", "0", false},
		{"1-2", "0", false},
		{"1e64", "1" + strings.Repeat("0", 64), true},
		{"1e400000000", "0", false},
		{"1e-2000000000", "0", false},
		{strings.Repeat("9", 65), "0", false},
	}

	for _, tt := range tests {
		name := tt.in
		if len(name) > 20 {
			name = name[:20]
		}
		t.Run(name, func(t *testing.T) {
			got, ok := ParseValue(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}
