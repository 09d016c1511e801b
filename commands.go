package gdem0154f51h

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Panel geometry.
const (
	Width  = 200
	Height = 200
)

// Controller commands.
const (
	panelSetting       byte = 0x00
	powerOffCmd        byte = 0x02
	powerOnCmd         byte = 0x04
	boosterSoftStart   byte = 0x06
	deepSleep          byte = 0x07
	dataStartTransmit  byte = 0x10
	displayRefresh     byte = 0x12
	pllControl         byte = 0x30
	vcomDataInterval   byte = 0x50
	resolutionSetting  byte = 0x61
	fetControl         byte = 0x4D
	forceTemperature   byte = 0xE9
	deepSleepCheckCode byte = 0xA5
)

// Fill patterns for a full RAM write, 4 pixels per byte.
const (
	fillWhite byte = 0x55
	fillBlack byte = 0x00
)

// command is a controller command followed by its parameter bytes.
type command struct {
	cmd  byte
	data []byte
}

// Profile describes the fixed protocol constants of a controller.
type Profile struct {
	Name   string
	Width  int
	Height int

	HasColor             bool
	HasPartialUpdate     bool // RAM can be addressed through a window
	HasFastPartialUpdate bool

	// BusyLevel is the level of the busy line while the controller works.
	BusyLevel gpio.Level

	// Expected durations, used for diagnostics only.
	PowerOnTime     time.Duration
	PowerOffTime    time.Duration
	FullRefreshTime time.Duration

	// Init is sent verbatim before the controller is powered on.
	Init []command
}

// GDEM0154F51H is the Good Display 1.54" 200x200 black/white/yellow/red panel.
var GDEM0154F51H = Profile{
	Name:             "GDEM0154F51H",
	Width:            Width,
	Height:           Height,
	HasColor:         true,
	HasPartialUpdate: true,
	BusyLevel:        gpio.Low,
	PowerOnTime:      40 * time.Millisecond,
	PowerOffTime:     50 * time.Millisecond,
	FullRefreshTime:  15 * time.Second,
	Init: []command{
		{fetControl, []byte{0x78}},
		{panelSetting, []byte{0x0F, 0x29}}, // 4-color mode
		{boosterSoftStart, []byte{0x0D, 0x12, 0x30, 0x20, 0x19, 0x2A, 0x22}},
		{vcomDataInterval, []byte{0x37}},
		{resolutionSetting, []byte{Width >> 8, Width & 0xFF, Height >> 8, Height & 0xFF}},
		{forceTemperature, []byte{0x01}},
		{pllControl, []byte{0x08}},
	},
}
