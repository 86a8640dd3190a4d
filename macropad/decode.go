package macropad

import (
	"fmt"
	"time"
)

// Transport is the raw report channel the codec drives. LocalMacroPad
// implements it against the physical device; tests substitute recorded
// frames.
type Transport interface {
	// SendFrame writes one 65-byte report and honors the frame's settle
	// interval before returning.
	SendFrame(Frame) error
	// ReceiveReport reads one input report, or fails after the timeout.
	ReceiveReport(timeout time.Duration) ([]byte, error)
}

// readTimeout bounds the wait for each individual button report.
const readTimeout = time.Second

// ReadLayer asks the device for one layer's button table and decodes it.
//
// The device answers the read request with exactly 24 reports, one per
// firmware slot, in the write layout with the read opcode:
//
//	03 FA <btn> <layer> 01 00 00 00 00 00 <count> <mod> <key> ...
//
// It may interleave keep-alive frames with a different opcode; those are
// skipped without counting. Fewer than 24 matching reports before the
// timeout budget runs out yields ErrTruncatedRead and no partial result.
// Unbound slots (count 0, a lone zero pair, or a scancode outside the
// keycode table) are omitted from the result rather than reported as
// errors.
func ReadLayer(t Transport, layer int) (map[ButtonID]Binding, error) {
	if layer < 1 || layer > NumLayers {
		return nil, configErrorf("layer %d out of range 1-%d", layer, NumLayers)
	}
	if err := t.SendFrame(readRequestFrame(layer)); err != nil {
		return nil, fmt.Errorf("read request for layer %d: %w", layer, err)
	}

	bindings := make(map[ButtonID]Binding)
	for counted := 0; counted < ButtonsPerLayer; {
		data, err := t.ReceiveReport(readTimeout)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d delivered %d of %d button reports: %v",
				ErrTruncatedRead, layer, counted, ButtonsPerLayer, err)
		}
		btn, binding, ok := decodeButtonReport(data)
		if !ok {
			continue
		}
		counted++
		if binding != nil {
			bindings[btn] = *binding
		}
	}
	return bindings, nil
}

// ReadAllLayers decodes every layer of the device in ascending order.
func ReadAllLayers(t Transport) (map[int]map[ButtonID]Binding, error) {
	layers := make(map[int]map[ButtonID]Binding, NumLayers)
	for layer := 1; layer <= NumLayers; layer++ {
		bindings, err := ReadLayer(t, layer)
		if err != nil {
			return nil, err
		}
		layers[layer] = bindings
	}
	return layers, nil
}

// decodeButtonReport parses one input report at the write layout's offsets.
// ok is false for frames that are not read responses (keep-alive padding);
// a nil binding with ok=true is an unbound slot.
func decodeButtonReport(data []byte) (ButtonID, *Binding, bool) {
	if len(data) < 13 || data[0] != ReportID || data[1] != opRead {
		return 0, nil, false
	}
	btn := ButtonID(data[2])
	count := int(data[10])
	if count == 0 || count > MaxMacroSteps {
		return btn, nil, true
	}
	steps := make([]Step, 0, count)
	for i := 0; i < count; i++ {
		off := 11 + 2*i
		if off+1 >= len(data) {
			return btn, nil, true
		}
		mod, code := data[off], data[off+1]
		name, known := KeyName(code)
		if !known {
			// Scancode 0 or anything outside the table: unbound, not an error.
			return btn, nil, true
		}
		steps = append(steps, Step{Modifiers: mod, Key: name})
	}
	return btn, &Binding{Steps: steps}, true
}
