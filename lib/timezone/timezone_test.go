package timezone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNowIsLocal(t *testing.T) {
	require.Equal(t, "Europe/Copenhagen", Location.String())
	require.Equal(t, Location, Now().Location())
}
