//go:build !linux

package ledcontrol

// BoardModel reports the device-tree model; unavailable off-linux.
func BoardModel() string { return "" }
