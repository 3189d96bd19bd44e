package versions

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	t.Parallel()

	info := GetVersionInfo()
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestVersionInfoWithExplicitValues(t *testing.T) {
	t.Parallel()

	info := getVersionInfoWithValues("1.2.3", "abc123def456", "2026-01-15T10:30:00Z")
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123def456", info.Commit)
	assert.Equal(t, "2026-01-15 10:30:00 UTC", info.BuildDate)
}

func TestDevVersionUsesCommit(t *testing.T) {
	t.Parallel()

	info := getVersionInfoWithValues("dev", "abc123def456", unknownStr)
	assert.Equal(t, "build-abc123de", info.Version)
}
