//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package rowed

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TIOCGETA
	ioctlWriteTermios = unix.TIOCSETAF
)
