package modifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access/accesstest"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/modifier"
)

func newFactory(t *testing.T) *modifier.Factory {
	t.Helper()

	f, err := modifier.NewFactory(&accesstest.DacAccess{}, &accesstest.Logger{})
	require.NoError(t, err)

	return f
}

func TestNewFactoryArguments(t *testing.T) {
	t.Parallel()

	_, err := modifier.NewFactory(nil, &accesstest.Logger{})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = modifier.NewFactory(&accesstest.DacAccess{}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestCreateScriptModifierUndefined(t *testing.T) {
	t.Parallel()

	_, err := newFactory(t).CreateScriptModifier(modifier.Undefined)
	assert.ErrorIs(t, err, model.ErrOutOfRange)

	_, err = newFactory(t).CreateScriptModifier(modifier.Kind(42))
	assert.ErrorIs(t, err, model.ErrOutOfRange)
}

func TestCreateScriptModifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind modifier.Kind
		want modifier.ScriptModifier
	}{
		{modifier.AddCustomHeader, &modifier.CustomHeaderModifier{}},
		{modifier.AddCustomFooter, &modifier.CustomFooterModifier{}},
		{modifier.TrackDacpacVersion, &modifier.TrackDacpacVersionModifier{}},
		{modifier.CommentOutUnnamedDefaultConstraintDrops, &modifier.CommentOutUnnamedDefaultConstraintDropsModifier{}},
		{modifier.ReplaceUnnamedDefaultConstraintDrops, &modifier.ReplaceUnnamedDefaultConstraintDropsModifier{}},
	}

	f := newFactory(t)

	for _, tt := range tests {
		got, err := f.CreateScriptModifier(tt.kind)
		require.NoError(t, err, tt.kind)
		assert.IsType(t, tt.want, got, tt.kind)
	}
}

func TestEnabledKeepsFixedOrder(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfiguration()
	assert.Empty(t, modifier.Enabled(cfg))

	cfg.ReplaceUnnamedDefaultConstraintDrops = true
	cfg.TrackDacpacVersion = true
	cfg.CustomFooter = "-- footer"
	cfg.CustomHeader = "-- header"
	assert.Equal(t, []modifier.Kind{
		modifier.AddCustomHeader,
		modifier.AddCustomFooter,
		modifier.TrackDacpacVersion,
		modifier.ReplaceUnnamedDefaultConstraintDrops,
	}, modifier.Enabled(cfg))

	cfg.CustomHeader = "   "
	assert.NotContains(t, modifier.Enabled(cfg), modifier.AddCustomHeader)
}
