package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/goup/pkg/errors"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		in   string
		want Spec
	}{
		{"https://go.dev", Spec{Kind: Official, Host: "https://go.dev"}},
		{"official|https://go.dev/", Spec{Kind: Official, Host: "https://go.dev"}},
		{"git|https://github.com/golang/go", Spec{Kind: OfficialGit, Host: "https://github.com/golang/go"}},
		{"autoindex|https://mirrors.example.com/golang/", Spec{Kind: AutoIndex, Host: "https://mirrors.example.com/golang"}},
		{"fancyindex|http://mirror.local", Spec{Kind: FancyIndex, Host: "http://mirror.local"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSpec(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSpec_Invalid(t *testing.T) {
	_, err := ParseSpec("ftp|example.com")
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = ParseSpec("git|")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestSpecString(t *testing.T) {
	spec, err := ParseSpec("fancyindex|http://mirror.local")
	require.NoError(t, err)
	assert.Equal(t, "fancyindex|http://mirror.local", spec.String())
}
