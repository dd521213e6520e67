package docker

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectUnixSocket_FirstExisting(t *testing.T) {
	dir := t.TempDir()
	sockPath := dir + "/docker.sock"
	f, err := os.Create(sockPath)
	require.NoError(t, err)
	f.Close()

	host, err := detectUnixSocket([]string{dir + "/missing.sock", sockPath})
	require.NoError(t, err)
	assert.Equal(t, "unix://"+sockPath, host)
}

func TestDetectUnixSocket_NoneExist(t *testing.T) {
	dir := t.TempDir()
	_, err := detectUnixSocket([]string{dir + "/a.sock", dir + "/b.sock"})
	require.Error(t, err)
}

func TestClient_CloseIsSafeWhenNil(t *testing.T) {
	c := &Client{}
	assert.NoError(t, c.Close())
}
