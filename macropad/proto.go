package macropad

import (
	"encoding/binary"
	"encoding/hex"
	"time"
)

const (
	// ReportSize is one HID transfer unit: the 0x03 report ID byte plus 64
	// payload bytes.
	ReportSize = 65

	// ReportID prefixes every report in either direction.
	ReportID byte = 0x03
)

// Protocol opcodes at payload offset 1. Recovered from captures of the
// vendor tool; the firmware documents none of this.
const (
	opWrite byte = 0xFD // button write, macro delay, and the commit marker
	opLayer byte = 0xFE // layer config (LED block)
	opFlash byte = 0xEF // save active config to flash
	opRead  byte = 0xFA // read request; also the read-response signature
)

// layerConfigLED is the layer-config subtype carrying the LED byte.
const layerConfigLED byte = 0xB0

// SettleInterval is the pause the firmware needs after every frame before
// it accepts the next one. The vendor tool sleeps 200 ms after each
// commit; sending faster silently drops writes.
const SettleInterval = 200 * time.Millisecond

// Frame is one immutable 65-byte report plus the settle pause the sender
// must honor before transmitting the next frame.
type Frame struct {
	Data   [ReportSize]byte
	Settle time.Duration
}

func newFrame(prefix ...byte) Frame {
	f := Frame{Settle: SettleInterval}
	copy(f.Data[:], prefix)
	return f
}

// Hex renders the frame the way capture files store it.
func (f Frame) Hex() string {
	return hex.EncodeToString(f.Data[:])
}

// commitFrame tells the firmware to apply the most recently sent frame.
// One commit follows every write, LED, and delay frame; commits are never
// batched across buttons.
func commitFrame() Frame {
	return newFrame(ReportID, opWrite, 0xFE, 0xFF)
}

// saveToFlashFrame persists the active configuration across power cycles.
// It takes no commit frame of its own.
func saveToFlashFrame() Frame {
	return newFrame(ReportID, opFlash, 0x03)
}

// readRequestFrame makes the device emit one report per button slot (24 per
// layer) on the interrupt IN endpoint.
func readRequestFrame(layer int) Frame {
	return newFrame(ReportID, opRead, 0x0F, 0x03, byte(layer), 0x05)
}

// buttonWriteFrame encodes one complete binding:
//
//	03 FD <btn> <layer> 01 00 00 00 00 00 <count> <mod> <key> ...
//
// The byte at offset 10 is the step count (0x01 for a single key or combo,
// N for an N-step macro); (modifier, scancode) pairs follow from offset 11
// in step order. The remainder is zero padding.
func buttonWriteFrame(btn ButtonID, layer int, b Binding) (Frame, error) {
	if len(b.Steps) == 0 {
		return Frame{}, configErrorf("%s has an empty binding", btn)
	}
	if len(b.Steps) > MaxMacroSteps {
		return Frame{}, configErrorf("%s binding has %d steps, the device fits at most %d", btn, len(b.Steps), MaxMacroSteps)
	}
	f := newFrame(ReportID, opWrite, byte(btn), byte(layer), 0x01)
	f.Data[10] = byte(len(b.Steps))
	for i, step := range b.Steps {
		code, err := ResolveKey(step.Key)
		if err != nil {
			return Frame{}, err
		}
		f.Data[11+2*i] = step.Modifiers
		f.Data[12+2*i] = code
	}
	return f, nil
}

// ledFrame encodes a layer's backlight setting:
//
//	03 FE B0 <layer> 08 <60-byte block>
//
// Offset 12 of the frame packs (color << 4) | effect. Offset 10 carries the
// 0x01 present in every capture of the vendor tool; the rest of the block
// is reserved and stays zero.
func ledFrame(layer int, led LedSetting) Frame {
	f := newFrame(ReportID, opLayer, layerConfigLED, byte(layer), 0x08)
	f.Data[10] = 0x01
	f.Data[12] = led.packed()
	return f
}

// delayFrame encodes the per-layer macro step delay in milliseconds,
// little-endian: 03 FD 00 <layer> 05 <lo> <hi>. Re-sending overwrites the
// previous value on the device.
func delayFrame(layer int, ms int) Frame {
	f := newFrame(ReportID, opWrite, 0x00, byte(layer), 0x05)
	binary.LittleEndian.PutUint16(f.Data[5:7], uint16(ms))
	return f
}
