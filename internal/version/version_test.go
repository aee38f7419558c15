package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldVersion, oldSHA, oldTime := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = oldVersion, oldSHA, oldTime })

	assert.Equal(t, "knobsim dev (unknown, built unknown)", String())

	Version, GitSHA, BuildTime = "0.3.1", "0123456789abcdef", "2026-10-18T00:00:00Z"
	assert.Equal(t, "knobsim 0.3.1 (0123456, built 2026-10-18T00:00:00Z)", String())
}
