package idx_test

import (
	"testing"
	"time"

	"github.com/coursekit/authgate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := idx.Parse("not-a-ulid")
	require.ErrorIs(t, err, idx.ErrInvalid)
}

func TestMonotonicWithinProcess(t *testing.T) {
	// ULIDs generated back to back must sort in generation order.
	a := idx.New()
	b := idx.New()
	require.Less(t, a.String(), b.String())
}

func TestTimeExtraction(t *testing.T) {
	before := time.Now()
	id := idx.New()
	require.WithinDuration(t, before, id.Time(), time.Second)
}
