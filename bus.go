package gdem0154f51h

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// busyPollInterval is how often the busy line is sampled.
const busyPollInterval = time.Millisecond

// defaultMaxTxSize is used when the connection does not report a limit.
const defaultMaxTxSize = 4096

// sendCommand sends cmd with DC low, followed by data with DC high.
// The parameter bytes of a command always go out as a single transfer,
// split only at the connection's maximum transaction size.
func (d *Dev) sendCommand(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("gdem0154f51h: failed to pull DC low: %w", err)
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("gdem0154f51h: command 0x%02X: %w", cmd, err)
	}
	if len(data) == 0 {
		return nil
	}
	return d.sendData(data)
}

// sendData sends data bytes with DC high.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("gdem0154f51h: failed to pull DC high: %w", err)
	}
	chunk := d.maxTxSize
	if chunk <= 0 {
		chunk = len(data)
	}
	for len(data) > 0 {
		n := min(chunk, len(data))
		if err := d.c.Tx(data[:n], nil); err != nil {
			return fmt.Errorf("gdem0154f51h: data: %w", err)
		}
		data = data[n:]
	}
	return nil
}

// fillRAM writes the whole controller RAM with v.
func (d *Dev) fillRAM(v byte) error {
	d.shown = false
	n := d.rect.Dx() * d.rect.Dy() / 4
	buf := d.scratch(n)
	for i := range buf {
		buf[i] = v
	}
	return d.sendCommand(dataStartTransmit, buf...)
}

// scratch returns the reusable transfer buffer resized to n bytes.
func (d *Dev) scratch(n int) []byte {
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	return d.buf[:n]
}

// reset pulses the reset line, if one is wired, and leaves deep sleep.
func (d *Dev) reset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("gdem0154f51h: failed to pull RST high: %w", err)
	}
	time.Sleep(d.resetDuration)
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("gdem0154f51h: failed to pull RST low: %w", err)
	}
	time.Sleep(d.resetDuration)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("gdem0154f51h: failed to pull RST high: %w", err)
	}
	time.Sleep(d.resetDuration)
	d.hibernating = false
	return nil
}

// waitWhileBusy blocks until the busy line leaves the profile's busy level
// or the busy timeout expires. A timeout is logged and otherwise ignored.
//
// Without a busy line it sleeps for the expected duration instead.
func (d *Dev) waitWhileBusy(op string, expected time.Duration) {
	log := d.logger()
	if d.busy == nil {
		time.Sleep(expected)
		return
	}
	start := time.Now()
	for d.busy.Read() == d.profile.BusyLevel {
		if elapsed := time.Since(start); elapsed > d.busyTimeout {
			log.Warn("busy timeout", "op", op, "timeout", d.busyTimeout)
			return
		}
		time.Sleep(busyPollInterval)
	}
	log.Debug("busy", "op", op, "elapsed", time.Since(start), "expected", expected)
}

// initDisplay sends the init table and powers the controller on.
func (d *Dev) initDisplay() error {
	if d.hibernating {
		if err := d.reset(); err != nil {
			return err
		}
	}
	for _, c := range d.profile.Init {
		if err := d.sendCommand(c.cmd, c.data...); err != nil {
			return err
		}
	}
	if err := d.powerOnController(); err != nil {
		return err
	}
	d.waitWhileBusy("init", d.profile.PowerOnTime)
	d.initDone = true
	return nil
}

// ensureInit runs the init sequence unless it already ran.
func (d *Dev) ensureInit() error {
	if d.initDone {
		return nil
	}
	return d.initDisplay()
}

func (d *Dev) powerOnController() error {
	if d.powerOn {
		return nil
	}
	if err := d.sendCommand(powerOnCmd); err != nil {
		return err
	}
	d.waitWhileBusy("power on", d.profile.PowerOnTime)
	d.powerOn = true
	return nil
}

func (d *Dev) powerOffController() error {
	if !d.powerOn {
		return nil
	}
	if err := d.sendCommand(powerOffCmd, 0x00); err != nil {
		return err
	}
	d.waitWhileBusy("power off", d.profile.PowerOffTime)
	d.powerOn = false
	return nil
}

func (d *Dev) refresh() error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	if err := d.powerOnController(); err != nil {
		return err
	}
	if err := d.sendCommand(displayRefresh, 0x00); err != nil {
		return err
	}
	d.waitWhileBusy("refresh", d.profile.FullRefreshTime)
	return nil
}
