package terminal

import "golang.org/x/sys/unix"

// TCSETS applies the change immediately, not after pending output drains.
const (
	ioctlReadTermios  = unix.TCGETS
	ioctlWriteTermios = unix.TCSETS
)
