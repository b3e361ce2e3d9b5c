package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPortFromNameIsStable(t *testing.T) {
	t.Parallel()

	port := portFromName("SitStretch")
	require.Equal(t, port, portFromName("SitStretch"))
	require.GreaterOrEqual(t, port, 20000)
	require.LessOrEqual(t, port, 39999)
}

func TestAcquireSingleInstanceRejectsSecondHolder(t *testing.T) {
	t.Parallel()

	name := "sitstretch-test-" + t.Name()
	first, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	defer func() {
		_ = first.Release()
	}()

	second, err := AcquireSingleInstance(name)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	require.Nil(t, second)

	require.NoError(t, first.Release())
	third, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	require.NoError(t, third.Release())
}

func TestReleaseNilGuard(t *testing.T) {
	t.Parallel()

	var guard *InstanceGuard
	require.NoError(t, guard.Release())
	require.Empty(t, guard.Address())
}

func TestActivateCallsRunningInstance(t *testing.T) {
	t.Parallel()

	name := "sitstretch-test-" + t.Name()
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)

	activated := make(chan struct{}, 1)
	go guard.Serve(func() { activated <- struct{}{} })

	require.NoError(t, Activate(name))
	select {
	case <-activated:
	default:
		t.Fatal("onActivate was not called before the reply")
	}

	require.NoError(t, guard.Release())
	require.Error(t, Activate(name))
}
