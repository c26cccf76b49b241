package wltest

import (
	wl "deedles.dev/playland/client"
	"deedles.dev/playland/wire"
)

func (s *Server) require(id uint32, what string) bool {
	if id == 0 {
		s.t.Fatalf("wltest: client has no %v", what)
		return false
	}
	return true
}

// SendPing sends xdg_wm_base.ping.
func (s *Server) SendPing(serial uint32) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.require(s.wmBase, "xdg_wm_base") {
		s.send(s.wmBase, "ping", serial)
	}
}

// SendClose asks the client to close its toplevel.
func (s *Server) SendClose() {
	s.m.Lock()
	defer s.m.Unlock()

	if s.require(s.toplevel, "xdg_toplevel") {
		s.send(s.toplevel, "close")
	}
}

// SendKey sends a key event to the client's keyboard.
func (s *Server) SendKey(key uint32, state wl.KeyboardKeyState) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.require(s.keyboard, "wl_keyboard") {
		s.send(s.keyboard, "key", s.nextSerial(), uint32(0), key, uint32(state))
	}
}

// SendMotion sends a pointer motion event, in surface coordinates.
func (s *Server) SendMotion(x, y float64) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.require(s.pointer, "wl_pointer") {
		s.send(s.pointer, "motion", uint32(0), wire.FixedFloat(x), wire.FixedFloat(y))
	}
}

// SendFrameDone fires every pending frame callback.
func (s *Server) SendFrameDone() {
	s.m.Lock()
	defer s.m.Unlock()

	s.fireFrames()
}

// RemoveGlobal announces that the global called name is gone.
func (s *Server) RemoveGlobal(name uint32) {
	s.m.Lock()
	defer s.m.Unlock()

	for id, obj := range s.objects {
		if obj.iface.Name == wl.RegistryInterface {
			s.send(id, "global_remove", name)
		}
	}
}
