package macropad

import "fmt"

// ButtonID is the device-internal identifier of one physical control.
type ButtonID byte

// Button IDs on the 12-key + 2-knob model. Keys occupy 0x01-0x0C. Knob 1
// uses a reversed ID order (0x15 left, 0x14 press, 0x13 right); knob 2 is
// 0x10-0x12. IDs 0x0D-0x0F and 0x16-0x18 exist in the firmware's 24-slot
// table but have no physical control.
const (
	ButtonKey1  ButtonID = 0x01
	ButtonKey2  ButtonID = 0x02
	ButtonKey3  ButtonID = 0x03
	ButtonKey4  ButtonID = 0x04
	ButtonKey5  ButtonID = 0x05
	ButtonKey6  ButtonID = 0x06
	ButtonKey7  ButtonID = 0x07
	ButtonKey8  ButtonID = 0x08
	ButtonKey9  ButtonID = 0x09
	ButtonKey10 ButtonID = 0x0A
	ButtonKey11 ButtonID = 0x0B
	ButtonKey12 ButtonID = 0x0C

	ButtonKnob1Left  ButtonID = 0x15
	ButtonKnob1Press ButtonID = 0x14
	ButtonKnob1Right ButtonID = 0x13

	ButtonKnob2Left  ButtonID = 0x10
	ButtonKnob2Press ButtonID = 0x11
	ButtonKnob2Right ButtonID = 0x12
)

const (
	// NumLayers is the number of independent keymaps the pad holds.
	NumLayers = 3

	// ButtonsPerLayer is the firmware's slot count per layer, physical or not.
	ButtonsPerLayer = 24
)

// ButtonOrder is the canonical enumeration order used when emitting a
// layer's write frames.
var ButtonOrder = []ButtonID{
	ButtonKey1, ButtonKey2, ButtonKey3, ButtonKey4,
	ButtonKey5, ButtonKey6, ButtonKey7, ButtonKey8,
	ButtonKey9, ButtonKey10, ButtonKey11, ButtonKey12,
	ButtonKnob1Left, ButtonKnob1Press, ButtonKnob1Right,
	ButtonKnob2Left, ButtonKnob2Press, ButtonKnob2Right,
}

var buttonIDs = map[string]ButtonID{
	"key1": ButtonKey1, "key2": ButtonKey2, "key3": ButtonKey3,
	"key4": ButtonKey4, "key5": ButtonKey5, "key6": ButtonKey6,
	"key7": ButtonKey7, "key8": ButtonKey8, "key9": ButtonKey9,
	"key10": ButtonKey10, "key11": ButtonKey11, "key12": ButtonKey12,

	"knob1_left": ButtonKnob1Left, "knob1_press": ButtonKnob1Press, "knob1_right": ButtonKnob1Right,
	"knob2_left": ButtonKnob2Left, "knob2_press": ButtonKnob2Press, "knob2_right": ButtonKnob2Right,
}

var buttonNames map[ButtonID]string

func init() {
	buttonNames = make(map[ButtonID]string, len(buttonIDs))
	for name, id := range buttonIDs {
		if prev, dup := buttonNames[id]; dup {
			panic(fmt.Errorf("%w: buttons %q and %q share ID %#02x", ErrProtocol, prev, name, byte(id)))
		}
		buttonNames[id] = name
	}
	if len(ButtonOrder) != len(buttonIDs) {
		panic(fmt.Errorf("%w: button enumeration order does not cover all buttons", ErrProtocol))
	}
}

// ResolveButton maps a config key like "key3" or "knob1_press" to its device ID.
func ResolveButton(name string) (ButtonID, error) {
	id, ok := buttonIDs[normalizeToken(name)]
	if !ok {
		return 0, &UnknownButtonError{Name: name}
	}
	return id, nil
}

func (b ButtonID) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return fmt.Sprintf("button 0x%02x", byte(b))
}
