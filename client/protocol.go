package wl

// Interface names and the highest versions implemented by this
// package. Binding requests min(advertised, implemented).
const (
	DisplayInterface = "wl_display"
	DisplayVersion   = 1

	RegistryInterface = "wl_registry"
	RegistryVersion   = 1

	CallbackInterface = "wl_callback"
	CallbackVersion   = 1

	CompositorInterface = "wl_compositor"
	CompositorVersion   = 4

	SurfaceInterface = "wl_surface"

	ShmInterface = "wl_shm"
	ShmVersion   = 1

	ShmPoolInterface = "wl_shm_pool"

	BufferInterface = "wl_buffer"

	SeatInterface = "wl_seat"
	SeatVersion   = 5

	KeyboardInterface = "wl_keyboard"

	PointerInterface = "wl_pointer"
)

// Request opcodes.
const (
	opDisplaySync        = 0
	opDisplayGetRegistry = 1

	opRegistryBind = 0

	opCompositorCreateSurface = 0

	opSurfaceDestroy = 0
	opSurfaceAttach  = 1
	opSurfaceDamage  = 2
	opSurfaceFrame   = 3
	opSurfaceCommit  = 6

	opShmCreatePool = 0

	opShmPoolCreateBuffer = 0
	opShmPoolDestroy      = 1

	opBufferDestroy = 0

	opSeatGetPointer  = 0
	opSeatGetKeyboard = 1
	opSeatRelease     = 3

	opKeyboardRelease = 0

	opPointerRelease = 1
)

// Event names, indexed by opcode.
var (
	displayEvents  = []string{"error", "delete_id"}
	registryEvents = []string{"global", "global_remove"}
	callbackEvents = []string{"done"}
	surfaceEvents  = []string{"enter", "leave"}
	shmEvents      = []string{"format"}
	bufferEvents   = []string{"release"}
	seatEvents     = []string{"capabilities", "name"}
	keyboardEvents = []string{"keymap", "enter", "leave", "key", "modifiers", "repeat_info"}
	pointerEvents  = []string{"enter", "leave", "motion", "button", "axis", "frame", "axis_source", "axis_stop", "axis_discrete"}
)

// EventNames returns the event names of the interfaces implemented by
// this package, indexed by opcode.
func EventNames() map[string][]string {
	return map[string][]string{
		DisplayInterface:  displayEvents,
		RegistryInterface: registryEvents,
		CallbackInterface: callbackEvents,
		SurfaceInterface:  surfaceEvents,
		ShmInterface:      shmEvents,
		BufferInterface:   bufferEvents,
		SeatInterface:     seatEvents,
		KeyboardInterface: keyboardEvents,
		PointerInterface:  pointerEvents,
	}
}

// Requests returns the request opcodes used by this package, keyed by
// interface and request name.
func Requests() map[string]map[string]uint16 {
	return map[string]map[string]uint16{
		DisplayInterface:    {"sync": opDisplaySync, "get_registry": opDisplayGetRegistry},
		RegistryInterface:   {"bind": opRegistryBind},
		CompositorInterface: {"create_surface": opCompositorCreateSurface},
		SurfaceInterface: {
			"destroy": opSurfaceDestroy,
			"attach":  opSurfaceAttach,
			"damage":  opSurfaceDamage,
			"frame":   opSurfaceFrame,
			"commit":  opSurfaceCommit,
		},
		ShmInterface: {"create_pool": opShmCreatePool},
		ShmPoolInterface: {
			"create_buffer": opShmPoolCreateBuffer,
			"destroy":       opShmPoolDestroy,
		},
		BufferInterface: {"destroy": opBufferDestroy},
		SeatInterface: {
			"get_pointer":  opSeatGetPointer,
			"get_keyboard": opSeatGetKeyboard,
			"release":      opSeatRelease,
		},
		KeyboardInterface: {"release": opKeyboardRelease},
		PointerInterface:  {"release": opPointerRelease},
	}
}

type ShmFormat uint32

const (
	ShmFormatArgb8888 ShmFormat = 0
	ShmFormatXrgb8888 ShmFormat = 1
)

func (f ShmFormat) String() string {
	switch f {
	case ShmFormatArgb8888:
		return "argb8888"
	case ShmFormatXrgb8888:
		return "xrgb8888"
	}

	// Other formats are DRM fourcc codes.
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

type SeatCapability uint32

const (
	SeatCapabilityPointer SeatCapability = 1 << iota
	SeatCapabilityKeyboard
	SeatCapabilityTouch
)

func (c SeatCapability) Has(v SeatCapability) bool {
	return c&v == v
}

type KeyboardKeymapFormat uint32

const (
	KeyboardKeymapFormatNoKeymap KeyboardKeymapFormat = iota
	KeyboardKeymapFormatXkbV1
)

type KeyboardKeyState uint32

const (
	KeyboardKeyStateReleased KeyboardKeyState = iota
	KeyboardKeyStatePressed
)

type PointerButtonState uint32

const (
	PointerButtonStateReleased PointerButtonState = iota
	PointerButtonStatePressed
)

type PointerAxis uint32

const (
	PointerAxisVerticalScroll PointerAxis = iota
	PointerAxisHorizontalScroll
)

type PointerAxisSource uint32

const (
	PointerAxisSourceWheel PointerAxisSource = iota
	PointerAxisSourceFinger
	PointerAxisSourceContinuous
	PointerAxisSourceWheelTilt
)

// PointerButton is a Linux input event code for a pointer button.
type PointerButton uint32

// These values were pulled from linux/input-event-codes.h.
const (
	PointerButtonLeft PointerButton = 0x110 + iota
	PointerButtonRight
	PointerButtonMiddle
	PointerButtonSide
	PointerButtonExtra
	PointerButtonForward
	PointerButtonBack
	PointerButtonTask
)

func (b PointerButton) String() string {
	switch b {
	case PointerButtonLeft:
		return "left"
	case PointerButtonRight:
		return "right"
	case PointerButtonMiddle:
		return "middle"
	case PointerButtonSide:
		return "side"
	case PointerButtonExtra:
		return "extra"
	case PointerButtonForward:
		return "forward"
	case PointerButtonBack:
		return "back"
	case PointerButtonTask:
		return "task"
	}

	return "unknown"
}
