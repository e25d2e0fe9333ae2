package io

import "time"

// RTC emulates the S-3511 real time clock found in cartridges
// such as the Pokemon series. The chip speaks a serial
// protocol over three GPIO pins: SCK on pin 0, SIO on pin 1
// and CS on pin 2. A transfer starts when CS rises, a command
// byte is clocked in LSB first, and the addressed register is
// then shifted in or out on successive SCK edges.
type RTC struct {
	sck, sio, cs bool

	command uint8
	bit     uint8
	buffer  []uint8
	reading bool

	control uint8
}

// rtc commands, bits 4..6 of the command byte
const (
	rtcReset    = 0
	rtcControl  = 4
	rtcDateTime = 2
	rtcTime     = 6
)

// NewRTC returns a real time clock wired to the host clock.
func NewRTC() *RTC {
	return &RTC{control: 0x40}
}

// Read returns the pin state driven by the chip. Only SIO is
// ever driven from the chip side.
func (r *RTC) Read() uint8 {
	var v uint8
	if r.sio {
		v |= 1 << 1
	}
	return v
}

// Write drives the pins from the CPU. direction selects which
// pins the CPU owns; an SIO owned by the chip keeps its value.
func (r *RTC) Write(pins, direction uint8) {
	cs := pins&(1<<2) != 0
	sck := pins&1 != 0

	if cs && !r.cs {
		// transfer begins
		r.command = 0
		r.bit = 0
		r.buffer = nil
		r.reading = false
	}
	r.cs = cs

	if !cs {
		r.sck = sck
		return
	}

	// the chip samples SIO on the rising edge of SCK
	if sck && !r.sck {
		if r.bit < 8 {
			if direction&(1<<1) != 0 && pins&(1<<1) != 0 {
				r.command |= 1 << r.bit
			}
			r.bit++
			if r.bit == 8 {
				r.start()
			}
		} else if r.reading {
			idx := int(r.bit-8) / 8
			if idx < len(r.buffer) {
				r.sio = r.buffer[idx]&(1<<((r.bit-8)%8)) != 0
			} else {
				r.sio = false
			}
			r.bit++
		} else {
			idx := int(r.bit-8) / 8
			if idx < len(r.buffer) && direction&(1<<1) != 0 {
				if pins&(1<<1) != 0 {
					r.buffer[idx] |= 1 << ((r.bit - 8) % 8)
				}
			}
			r.bit++
			if r.command>>4&7 == rtcControl && int(r.bit-8) == 8*len(r.buffer) {
				r.control = r.buffer[0]
			}
		}
	}
	r.sck = sck
}

// start latches the command byte and prepares the register
// buffer it addresses.
func (r *RTC) start() {
	r.reading = r.command&0x80 != 0
	switch r.command >> 4 & 7 {
	case rtcReset:
		r.control = 0
		r.buffer = nil
	case rtcControl:
		if r.reading {
			r.buffer = []uint8{r.control}
		} else {
			r.buffer = make([]uint8, 1)
		}
	case rtcDateTime:
		now := time.Now()
		r.buffer = []uint8{
			bcd(now.Year() % 100),
			bcd(int(now.Month())),
			bcd(now.Day()),
			bcd(int(now.Weekday())),
			bcd(now.Hour()),
			bcd(now.Minute()),
			bcd(now.Second()),
		}
	case rtcTime:
		now := time.Now()
		r.buffer = []uint8{
			bcd(now.Hour()),
			bcd(now.Minute()),
			bcd(now.Second()),
		}
	default:
		r.buffer = nil
	}
}

// bcd encodes a two digit value as binary coded decimal.
func bcd(v int) uint8 {
	return uint8(v/10<<4 | v%10)
}
