package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	all := c.All()
	require.Len(t, all, 10)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
	q, ok := c.Get(2)
	require.True(t, ok)
	assert.Contains(t, q.Text, "born")
	_, ok = c.Get(99)
	assert.False(t, ok)
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte(`
questions:
  - {id: 1, text: a}
  - {id: 1, text: b}
  - {id: 2, text: c}
`))
	assert.ErrorContains(t, err, "duplicate")
}

func TestParseRejectsShortCatalog(t *testing.T) {
	_, err := Parse([]byte("questions:\n  - {id: 1, text: a}\n"))
	assert.Error(t, err)
}
