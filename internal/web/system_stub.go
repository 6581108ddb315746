//go:build !linux

package web

func kernelVersion() string { return "" }
