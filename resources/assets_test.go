package resources

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sitstretch/internal/audio"
)

func TestSound_EveryRoleIsEmbedded(t *testing.T) {
	t.Parallel()

	for _, role := range audio.Roles() {
		data, err := Sound(role)
		require.NoError(t, err, role)
		require.Equal(t, "RIFF", string(data[:4]), role)
		require.Equal(t, "WAVE", string(data[8:12]), role)
	}
}

func TestSound_UnknownRole(t *testing.T) {
	t.Parallel()

	_, err := SoundLoader(audio.Role("missing"))()
	require.Error(t, err)
}
