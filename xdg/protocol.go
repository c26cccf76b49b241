package xdg

// Interface names and the highest versions implemented by this
// package.
const (
	WmBaseInterface = "xdg_wm_base"
	WmBaseVersion   = 5

	SurfaceInterface = "xdg_surface"

	ToplevelInterface = "xdg_toplevel"

	DecorationManagerInterface = "zxdg_decoration_manager_v1"
	DecorationManagerVersion   = 1

	ToplevelDecorationInterface = "zxdg_toplevel_decoration_v1"
)

// Request opcodes.
const (
	opWmBaseDestroy       = 0
	opWmBaseGetXdgSurface = 2
	opWmBasePong          = 3

	opSurfaceDestroy           = 0
	opSurfaceGetToplevel       = 1
	opSurfaceSetWindowGeometry = 3
	opSurfaceAckConfigure      = 4

	opToplevelDestroy    = 0
	opToplevelSetTitle   = 2
	opToplevelSetAppID   = 3
	opToplevelSetMinSize = 8
	opToplevelSetMaxSize = 7

	opDecorationManagerDestroy               = 0
	opDecorationManagerGetToplevelDecoration = 1

	opToplevelDecorationDestroy = 0
	opToplevelDecorationSetMode = 1
)

// Event names, indexed by opcode.
var (
	wmBaseEvents             = []string{"ping"}
	surfaceEvents            = []string{"configure"}
	toplevelEvents           = []string{"configure", "close", "configure_bounds", "wm_capabilities"}
	toplevelDecorationEvents = []string{"configure"}
)

// EventNames returns the event names of the interfaces implemented by
// this package, indexed by opcode.
func EventNames() map[string][]string {
	return map[string][]string{
		WmBaseInterface:             wmBaseEvents,
		SurfaceInterface:            surfaceEvents,
		ToplevelInterface:           toplevelEvents,
		ToplevelDecorationInterface: toplevelDecorationEvents,
	}
}

// Requests returns the request opcodes used by this package, keyed by
// interface and request name.
func Requests() map[string]map[string]uint16 {
	return map[string]map[string]uint16{
		WmBaseInterface: {
			"destroy":         opWmBaseDestroy,
			"get_xdg_surface": opWmBaseGetXdgSurface,
			"pong":            opWmBasePong,
		},
		SurfaceInterface: {
			"destroy":             opSurfaceDestroy,
			"get_toplevel":        opSurfaceGetToplevel,
			"set_window_geometry": opSurfaceSetWindowGeometry,
			"ack_configure":       opSurfaceAckConfigure,
		},
		ToplevelInterface: {
			"destroy":      opToplevelDestroy,
			"set_title":    opToplevelSetTitle,
			"set_app_id":   opToplevelSetAppID,
			"set_max_size": opToplevelSetMaxSize,
			"set_min_size": opToplevelSetMinSize,
		},
		DecorationManagerInterface: {
			"destroy":                  opDecorationManagerDestroy,
			"get_toplevel_decoration": opDecorationManagerGetToplevelDecoration,
		},
		ToplevelDecorationInterface: {
			"destroy":  opToplevelDecorationDestroy,
			"set_mode": opToplevelDecorationSetMode,
		},
	}
}

type ToplevelState uint32

const (
	ToplevelStateMaximized ToplevelState = 1 + iota
	ToplevelStateFullscreen
	ToplevelStateResizing
	ToplevelStateActivated
	ToplevelStateTiledLeft
	ToplevelStateTiledRight
	ToplevelStateTiledTop
	ToplevelStateTiledBottom
	ToplevelStateSuspended
)

func (s ToplevelState) String() string {
	switch s {
	case ToplevelStateMaximized:
		return "maximized"
	case ToplevelStateFullscreen:
		return "fullscreen"
	case ToplevelStateResizing:
		return "resizing"
	case ToplevelStateActivated:
		return "activated"
	case ToplevelStateTiledLeft:
		return "tiled_left"
	case ToplevelStateTiledRight:
		return "tiled_right"
	case ToplevelStateTiledTop:
		return "tiled_top"
	case ToplevelStateTiledBottom:
		return "tiled_bottom"
	case ToplevelStateSuspended:
		return "suspended"
	}

	return "unknown"
}

type ToplevelWmCapabilities uint32

const (
	ToplevelWmCapabilitiesWindowMenu ToplevelWmCapabilities = 1 + iota
	ToplevelWmCapabilitiesMaximize
	ToplevelWmCapabilitiesFullscreen
	ToplevelWmCapabilitiesMinimize
)

// DecorationMode says who draws a toplevel's window decorations.
type DecorationMode uint32

const (
	DecorationModeClientSide DecorationMode = 1
	DecorationModeServerSide DecorationMode = 2
)

func (m DecorationMode) String() string {
	switch m {
	case DecorationModeClientSide:
		return "client_side"
	case DecorationModeServerSide:
		return "server_side"
	}

	return "unknown"
}
