//go:build linux

package ledcontrol

import (
	"os"
	"strings"
)

// BoardModel reads the device-tree model string ("Raspberry Pi 4 Model B"...).
// Empty when unavailable.
func BoardModel() string {
	// Common paths across Pi distros.
	paths := []string{
		"/sys/firmware/devicetree/base/model",
		"/proc/device-tree/model",
	}
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		model := strings.TrimSpace(string(b))
		model = strings.Trim(model, "\x00")
		if model != "" {
			return model
		}
	}
	return ""
}
