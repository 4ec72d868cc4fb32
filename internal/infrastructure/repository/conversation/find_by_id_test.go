package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A repository without a pool panics on any query, so these ids must never reach the database.
func TestFindByID_MalformedIDSkipsDatabase(t *testing.T) {
	repo := NewPostgresRepository(nil)

	for _, id := range []string{"", "not-a-uuid", "42", "2b1c6a4e-0000-4000-8000", "2b1c6a4e-0000-4000-8000-00000000000z"} {
		detail, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err, id)
		assert.Nil(t, detail, id)
	}
}
