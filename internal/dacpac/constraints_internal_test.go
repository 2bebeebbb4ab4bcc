package dacpac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"dbo", "Author", "Id"}, splitName("[dbo].[Author].[Id]"))
	assert.Equal(t, []string{"dbo", "odd]name"}, splitName("[dbo].[odd]]name]"))
	assert.Empty(t, splitName(""))
}
