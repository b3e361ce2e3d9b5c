package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestVersionCommandPrintsFull(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "sitstretch"}
	AttachCobraVersionCommand(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), Version)
	require.Contains(t, out.String(), Full())
}
