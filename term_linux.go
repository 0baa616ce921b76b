package rowed

import "golang.org/x/sys/unix"

// TCSETSF is tcsetattr with TCSAFLUSH: pending input is discarded.
const (
	ioctlReadTermios  = unix.TCGETS
	ioctlWriteTermios = unix.TCSETSF
)
