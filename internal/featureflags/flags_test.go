package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled(t *testing.T) {
	t.Setenv("FLAG_SEED_DEMO", " Yes ")
	assert.True(t, Enabled(SeedDemo))

	t.Setenv("FLAG_SEED_DEMO", "0")
	assert.False(t, Enabled(SeedDemo))

	assert.False(t, Enabled("never_set_anywhere"))
}
