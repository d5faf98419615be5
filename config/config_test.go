package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opalscript/ecmalex/config"
)

func TestLoadDefaults(t *testing.T) {
	opts, err := config.Load([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, config.DefaultEdition, opts.Edition)
	require.False(t, opts.ModuleMode)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	_, err := config.Load([]byte(`{"bogus": true}`))
	require.Error(t, err)
}

func TestLoadRejectsMalformedEdition(t *testing.T) {
	_, err := config.Load([]byte(`{"edition": "esNext"}`))
	require.Error(t, err)
}

func TestExtraReservedWords(t *testing.T) {
	opts, err := config.Load([]byte(`{"extraReservedWords": ["type", "enum"]}`))
	require.NoError(t, err)
	require.True(t, opts.IsReserved("type"))
	require.False(t, opts.IsReserved("interface"))
}

func TestAtLeast(t *testing.T) {
	opts, err := config.Load([]byte(`{"edition": "es2022"}`))
	require.NoError(t, err)
	require.True(t, opts.AtLeast("es2020"))
	require.False(t, opts.AtLeast("es2023"))
}
