//go:build linux

package web

import "golang.org/x/sys/unix"

// kernelVersion returns the running kernel release ("6.6.31-v8+"), best-effort.
func kernelVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}
