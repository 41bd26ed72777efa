package terminal

import (
	"testing"

	"github.com/GriffinCanCode/TermHub/internal/logging"
	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSetEchoTogglesExactlyTheEchoBits(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	echo := NewEchoController(logging.NewNop())

	require.True(t, echo.SetEcho(slave, true))
	enabled, err := unix.IoctlGetTermios(int(slave.Fd()), ioctlReadTermios)
	require.NoError(t, err)
	assert.Equal(t, uint32(echoBits), uint32(enabled.Lflag)&uint32(echoBits))

	require.True(t, echo.SetEcho(slave, false))
	disabled, err := unix.IoctlGetTermios(int(slave.Fd()), ioctlReadTermios)
	require.NoError(t, err)
	assert.Zero(t, uint32(disabled.Lflag)&uint32(echoBits))

	// Every other mode bit is untouched.
	assert.Equal(t, uint32(enabled.Lflag)&^uint32(echoBits), uint32(disabled.Lflag)&^uint32(echoBits))
	assert.Equal(t, enabled.Iflag, disabled.Iflag)
	assert.Equal(t, enabled.Oflag, disabled.Oflag)
	assert.Equal(t, enabled.Cflag, disabled.Cflag)
}

func TestSetEchoRoundTripRestoresOriginalBits(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	echo := NewEchoController(logging.NewNop())
	require.True(t, echo.SetEcho(slave, true))

	original, err := unix.IoctlGetTermios(int(slave.Fd()), ioctlReadTermios)
	require.NoError(t, err)

	require.True(t, echo.SetEcho(slave, false))
	require.True(t, echo.SetEcho(slave, true))

	restored, err := unix.IoctlGetTermios(int(slave.Fd()), ioctlReadTermios)
	require.NoError(t, err)
	assert.Equal(t, original.Lflag, restored.Lflag)
}

func TestSetEchoFailsOnClosedHandle(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	master.Close()
	require.NoError(t, slave.Close())

	echo := NewEchoController(logging.NewNop())
	assert.False(t, echo.SetEcho(slave, true))
}
