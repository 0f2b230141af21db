package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		input    string
		expected Request
	}{
		{"stable", Request{Kind: Stable}},
		{"unstable", Request{Kind: Unstable}},
		{"beta", Request{Kind: Beta}},
		{"nightly", Request{Kind: Nightly}},
		{"tip", Request{Kind: Nightly}},
		{"gotip", Request{Kind: Nightly}},
		{"~1.22", Request{Kind: Explicit, Value: "~1.22"}},
		{"1.21rc2", Request{Kind: Explicit, Value: "1.21rc2"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseRequest(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRequestString(t *testing.T) {
	assert.Equal(t, "stable", ParseRequest("stable").String())
	assert.Equal(t, "nightly", ParseRequest("tip").String())
	assert.Equal(t, ">=1.20", ParseRequest(">=1.20").String())
}

func TestFilter(t *testing.T) {
	versions := []string{"1", "1.21rc2", "1.21.0", "1.21.1", "1.22beta1", "1.22rc1", "1.22.0"}

	tests := []struct {
		filter   string
		expected []string
	}{
		{"stable", []string{"1", "1.21.0", "1.21.1", "1.22.0"}},
		{"unstable", []string{"1.21rc2", "1.22rc1"}},
		{"beta", []string{"1.22beta1"}},
		{"1.21", []string{"1.21rc2", "1.21.0", "1.21.1"}},
		{"^1\\.22", []string{"1.22beta1", "1.22rc1", "1.22.0"}},
		{"rc[", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got := ParseFilter(tt.filter).Apply(versions)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFilter_ZeroValueMatchesAll(t *testing.T) {
	var f Filter
	assert.True(t, f.Match("anything"))
}
