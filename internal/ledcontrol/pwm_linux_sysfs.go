//go:build linux

package ledcontrol

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// sysfsPWM drives a hardware PWM channel via /sys/class/pwm.
//
// Notes:
// - On Raspberry Pi the header PWM channels need `dtoverlay=pwm-2chan` (or
//   equivalent) before they appear under /sys/class/pwm.
// - Ticks are microseconds; sysfs wants nanoseconds, so values are scaled
//   by 1000 on the way in.

type sysfsPWM struct {
	chipName string // "pwmchip0"
	pwmPath  string // /sys/class/pwm/pwmchipN/pwmM
	channel  int

	periodNS uint64
	enabled  bool
}

var pwmSysfsBase = "/sys/class/pwm"

const nsPerTick = 1000

func openSysfsPWM(chipName string, channel int, periodTicks uint32) (pulseDriver, error) {
	if periodTicks == 0 {
		return nil, fmt.Errorf("ledcontrol: invalid pwm period 0")
	}
	if channel < 0 {
		return nil, fmt.Errorf("ledcontrol: invalid pwm channel %d", channel)
	}

	chipPath, err := resolvePWMChip(chipName, channel)
	if err != nil {
		return nil, err
	}

	d := &sysfsPWM{
		chipName: filepath.Base(chipPath),
		channel:  channel,
		pwmPath:  filepath.Join(chipPath, fmt.Sprintf("pwm%d", channel)),
	}

	if err := d.ensureExported(chipPath); err != nil {
		return nil, err
	}

	// Period must be set with the output disabled (common sysfs requirement),
	// and it never changes afterwards.
	_ = d.writeBool("enable", false)
	d.periodNS = uint64(periodTicks) * nsPerTick
	if err := d.writeUint("period", d.periodNS); err != nil {
		return nil, fmt.Errorf("ledcontrol: set pwm period: %w", err)
	}
	if err := d.writeUint("duty_cycle", 0); err != nil {
		return nil, fmt.Errorf("ledcontrol: clear pwm duty: %w", err)
	}
	if err := d.writeBool("enable", true); err != nil {
		return nil, fmt.Errorf("ledcontrol: enable pwm: %w", err)
	}
	d.enabled = true
	return d, nil
}

// resolvePWMChip returns the chip path to use. An explicit name is taken as
// is; otherwise the first chip exposing more channels than the requested
// index wins.
func resolvePWMChip(chipName string, channel int) (string, error) {
	if chipName != "" {
		chip := filepath.Join(pwmSysfsBase, chipName)
		if _, err := os.Stat(chip); err != nil {
			return "", fmt.Errorf("ledcontrol: pwm chip %s: %w", chipName, err)
		}
		return chip, nil
	}

	entries, err := os.ReadDir(pwmSysfsBase)
	if err != nil {
		return "", fmt.Errorf("ledcontrol: read %s: %w", pwmSysfsBase, err)
	}

	// Prefer pwmchip0 if present (common on Pi).
	// Note: in sysfs, pwmchipN entries are commonly symlinks, not directories.
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "pwmchip") {
			names = append(names, e.Name())
		}
	}
	for _, preferred := range []string{"pwmchip0", "pwmchip1", "pwmchip2"} {
		for i, name := range names {
			if name == preferred && i != 0 {
				names[0], names[i] = names[i], names[0]
			}
		}
	}

	for _, name := range names {
		chip := filepath.Join(pwmSysfsBase, name)
		n, rerr := readInt(filepath.Join(chip, "npwm"))
		if rerr != nil || n <= channel {
			continue
		}
		return chip, nil
	}
	return "", fmt.Errorf("ledcontrol: no sysfs pwmchip with channel %d (is the pwm overlay enabled?)", channel)
}

func (d *sysfsPWM) ensureExported(chipPath string) error {
	if _, err := os.Stat(d.pwmPath); err == nil {
		return nil
	}
	exportPath := filepath.Join(chipPath, "export")
	if err := writeSysfs(exportPath, strconv.Itoa(d.channel)); err != nil {
		// If already exported by someone else, ignore.
		if _, statErr := os.Stat(d.pwmPath); statErr == nil {
			return nil
		}
		return fmt.Errorf("ledcontrol: export pwm: %w", err)
	}

	// Wait briefly for the sysfs node to appear.
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(d.pwmPath); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, err := os.Stat(d.pwmPath); err != nil {
		return fmt.Errorf("ledcontrol: pwm path not created after export: %w", err)
	}
	return nil
}

func (d *sysfsPWM) Name() string {
	return fmt.Sprintf("%s/%d", d.chipName, d.channel)
}

func (d *sysfsPWM) SetPulse(periodTicks, pulseTicks uint32) error {
	if pulseTicks > periodTicks {
		return fmt.Errorf("ledcontrol: pulse %d exceeds period %d", pulseTicks, periodTicks)
	}
	wantPeriod := uint64(periodTicks) * nsPerTick
	if wantPeriod != d.periodNS {
		return fmt.Errorf("ledcontrol: period %d does not match configured period", periodTicks)
	}
	if err := d.writeUint("duty_cycle", uint64(pulseTicks)*nsPerTick); err != nil {
		return err
	}
	if !d.enabled {
		_ = d.writeBool("enable", true)
		d.enabled = true
	}
	return nil
}

func (d *sysfsPWM) Close() error {
	// Leave the LED dark before disabling.
	_ = d.writeUint("duty_cycle", 0)
	_ = d.writeBool("enable", false)
	d.enabled = false
	return nil
}

func (d *sysfsPWM) writeUint(name string, v uint64) error {
	return writeSysfs(filepath.Join(d.pwmPath, name), strconv.FormatUint(v, 10))
}

func (d *sysfsPWM) writeBool(name string, v bool) error {
	val := "0"
	if v {
		val = "1"
	}
	return writeSysfs(filepath.Join(d.pwmPath, name), val)
}

func writeSysfs(path string, value string) error {
	// Use O_WRONLY without O_TRUNC/O_CREATE: some sysfs attributes reject
	// truncation flags even when mode bits allow writes.
	// Immediately after exporting a PWM channel, udev may still be adjusting
	// permissions, so transient EACCES/ENOENT are retried briefly.
	deadline := time.Now().Add(2 * time.Second)
	var lastErr error
	for {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			if time.Now().Before(deadline) && isRetryableSysfsErr(err) {
				time.Sleep(25 * time.Millisecond)
				continue
			}
			return err
		}
		_, werr := f.WriteString(value)
		cerr := f.Close()
		if werr == nil && cerr == nil {
			return nil
		}
		if werr != nil {
			lastErr = werr
		} else {
			lastErr = cerr
		}
		if time.Now().Before(deadline) && isRetryableSysfsErr(lastErr) {
			time.Sleep(25 * time.Millisecond)
			continue
		}
		if werr != nil && cerr != nil {
			return errors.Join(werr, cerr)
		}
		if werr != nil {
			return werr
		}
		return cerr
	}
}

func isRetryableSysfsErr(err error) bool {
	return os.IsPermission(err) || os.IsNotExist(err) || errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.ENOENT)
}

func readInt(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.Atoi(s)
}
