package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewContainerInfo verifies the mapping from inspect fields, including
// stripping the leading "/" the API puts on container names.
func TestNewContainerInfo(t *testing.T) {
	labels := map[string]string{"com.docker.compose.service": "app"}

	info := newContainerInfo("abc123", "/dev-app-1", "running", labels)

	assert.Equal(t, "abc123", info.ContainerID)
	assert.Equal(t, "dev-app-1", info.ContainerName)
	assert.Equal(t, "running", info.Status)
	assert.Equal(t, labels, info.Labels)
	assert.True(t, info.IsRunning())
}

// TestNewContainerInfo_NotRunning ensures stopped containers are reported
// as such, which RequireRunning relies on.
func TestNewContainerInfo_NotRunning(t *testing.T) {
	for _, status := range []string{"exited", "created", "paused", ""} {
		info := newContainerInfo("abc123", "name", status, nil)
		assert.False(t, info.IsRunning(), "status %q", status)
	}
}

// TestNewContainerInfo_NameWithoutSlash keeps names that were already clean.
func TestNewContainerInfo_NameWithoutSlash(t *testing.T) {
	info := newContainerInfo("abc123", "plain", "running", nil)
	assert.Equal(t, "plain", info.ContainerName)
}
