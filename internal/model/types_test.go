package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtendBehavior(t *testing.T) {
	b, err := ParseExtendBehavior("MERGE")
	require.NoError(t, err)
	assert.Equal(t, BehaviorMerge, b)

	_, err = ParseExtendBehavior("append")
	assert.Error(t, err)
}

func TestParseBackendMode(t *testing.T) {
	m, err := ParseBackendMode("Advanced")
	require.NoError(t, err)
	assert.Equal(t, BackendAdvanced, m)
	assert.True(t, m.SupportsBuildContext())

	m, err = ParseBackendMode("legacy")
	require.NoError(t, err)
	assert.False(t, m.SupportsBuildContext())

	_, err = ParseBackendMode("classic")
	assert.Error(t, err)
}

func TestCLIErrorUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	cliErr := WrapCLIError(ExitBuildFailed, "build failed", underlying)

	assert.Equal(t, "build failed: boom", cliErr.Error())
	assert.Equal(t, underlying, errors.Unwrap(cliErr))

	bare := NewCLIError(ExitGeneralError, "oops")
	assert.Equal(t, "oops", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
