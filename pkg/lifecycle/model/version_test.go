package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	v, err := model.ParseVersion("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, model.Version{Major: 1, Minor: 2, Build: 3, Revision: 4}, v)
	assert.Equal(t, "1.2.3.4", v.String())

	v, err = model.ParseVersion("2.0")
	require.NoError(t, err)
	assert.Equal(t, model.UndefinedComponent, v.Build)
	assert.Equal(t, model.UndefinedComponent, v.Revision)
	assert.Equal(t, "2.0", v.String())
}

func TestParseVersionInvalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "1", "1.2.3.4.5", "1.a", "1.-2", "latest"} {
		_, err := model.ParseVersion(s)
		assert.ErrorIs(t, err, model.ErrInvalidArgument, s)
	}
}

func TestVersionCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0.0", "1.0.0.0", 0},
		{"1.0", "1.0.0", -1},
		{"1.0.0.1", "1.0.0.0", 1},
		{"2.0.0.0", "10.0.0.0", -1},
		{"1.3", "1.2.9.9", 1},
	}

	for _, tt := range tests {
		got := model.MustParseVersion(tt.a).Compare(model.MustParseVersion(tt.b))
		assert.Equal(t, tt.want, got, "%s vs %s", tt.a, tt.b)
	}
}
