package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	old := GitCommit
	t.Cleanup(func() { GitCommit = old })
	GitCommit = "abc123"

	s := String()
	assert.Contains(t, s, Version)
	assert.Contains(t, s, "commit abc123")
}
