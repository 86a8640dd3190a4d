package macropad

import (
	"fmt"
	"sort"
)

// LayerFrames turns one layer into its ordered frame sequence:
//
//  1. a write+commit pair for every bound button, in canonical button order
//  2. the LED frame + commit, only when a setting is present (never defaulted)
//  3. the macro delay frame + commit, only when the delay is non-zero
//
// The device applies frames strictly in arrival order; this ordering is a
// firmware requirement, not a convention.
func LayerFrames(l Layer) ([]Frame, error) {
	if l.Index < 1 || l.Index > NumLayers {
		return nil, configErrorf("layer %d out of range 1-%d", l.Index, NumLayers)
	}
	if l.DelayMS < 0 {
		return nil, configErrorf("layer %d delay %d ms is negative", l.Index, l.DelayMS)
	}
	if l.DelayMS > 0xFFFF {
		return nil, configErrorf("layer %d delay %d ms exceeds the 16-bit field", l.Index, l.DelayMS)
	}

	var frames []Frame
	for _, btn := range ButtonOrder {
		binding, ok := l.Bindings[btn]
		if !ok {
			continue
		}
		write, err := buttonWriteFrame(btn, l.Index, binding)
		if err != nil {
			return nil, err
		}
		frames = append(frames, write, commitFrame())
	}
	if l.Led != nil {
		frames = append(frames, ledFrame(l.Index, *l.Led), commitFrame())
	}
	if l.DelayMS > 0 {
		frames = append(frames, delayFrame(l.Index, l.DelayMS), commitFrame())
	}
	return frames, nil
}

// ProgramFrames builds the complete frame sequence for a multi-layer
// program. Layers are emitted in ascending index order; persist appends the
// save-to-flash frame after all layers. The result is deterministic:
// encoding the same input twice yields byte-identical sequences.
func ProgramFrames(layers []Layer, persist bool) ([]Frame, error) {
	ordered := make([]Layer, len(layers))
	copy(ordered, layers)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	var frames []Frame
	seen := make(map[int]bool, len(ordered))
	for _, l := range ordered {
		if seen[l.Index] {
			return nil, configErrorf("layer %d appears twice", l.Index)
		}
		seen[l.Index] = true
		lf, err := LayerFrames(l)
		if err != nil {
			return nil, err
		}
		frames = append(frames, lf...)
	}
	if persist {
		frames = append(frames, saveToFlashFrame())
	}
	return frames, nil
}

// SendFrames transmits a built sequence in order, aborting on the first
// transport failure. The device has no rollback: on failure it is left
// partially programmed and the caller decides whether to re-run.
func SendFrames(t Transport, frames []Frame) error {
	for i, f := range frames {
		if err := t.SendFrame(f); err != nil {
			return fmt.Errorf("frame %d of %d: %w", i+1, len(frames), err)
		}
	}
	return nil
}
