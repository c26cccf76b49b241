package wltest

import (
	"errors"
	"fmt"
	"os"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/shm"
	"deedles.dev/playland/wire"
	"deedles.dev/playland/xdg"
	"golang.org/x/sys/unix"
)

const keymap = "xkb_keymap { };\x00"

// handle updates the server's state for r and sends replies. s.m must
// be held.
func (s *Server) handle(r *Request) error {
	switch r.Interface + "." + r.Name {
	case "wl_display.sync":
		id := r.Args[0].(uint32)
		s.send(id, "done", s.nextSerial())
		delete(s.objects, id)
		s.send(1, "delete_id", id)

	case "wl_display.get_registry":
		registry := r.Args[0].(uint32)
		for i, name := range s.opts.Globals {
			s.send(registry, "global", uint32(i+1), name, uint32(s.lookup(name).Version))
		}

	case "wl_registry.bind":
		return s.bind(r.Args[1].(wire.NewID))

	case "wl_shm.create_pool":
		id, file, size := r.Args[0].(uint32), r.Args[1].(*os.File), r.Args[2].(int32)
		if file == nil {
			return errors.New("missing fd")
		}
		mmap, err := shm.Map(int(file.Fd()), int(size), unix.PROT_READ)
		if err != nil {
			file.Close()
			return fmt.Errorf("map pool: %w", err)
		}
		s.pools[id] = &pool{file: file, mmap: mmap}

	case "wl_shm_pool.create_buffer":
		s.buffers[r.Args[0].(uint32)] = buffer{
			pool:   r.Object,
			offset: r.Args[1].(int32),
			width:  r.Args[2].(int32),
			height: r.Args[3].(int32),
			stride: r.Args[4].(int32),
		}

	case "wl_surface.attach":
		s.pending[r.Object] = r.Args[0].(uint32)

	case "wl_surface.frame":
		s.frames = append(s.frames, r.Args[0].(uint32))
		r.Outstanding = len(s.frames)

	case "wl_surface.commit":
		return s.commit(r)

	case "wl_seat.get_keyboard":
		return s.getKeyboard(r.Args[0].(uint32))

	case "wl_seat.get_pointer":
		s.pointer = r.Args[0].(uint32)

	case "xdg_wm_base.get_xdg_surface":
		s.xdgSurface = r.Args[0].(uint32)
		s.roleSurface = r.Args[1].(uint32)

	case "xdg_surface.get_toplevel":
		s.toplevel = r.Args[0].(uint32)

	case "zxdg_decoration_manager_v1.get_toplevel_decoration":
		s.decoration = r.Args[0].(uint32)

	case "zxdg_toplevel_decoration_v1.set_mode":
		s.decorationMode = r.Args[0].(uint32)
	}

	return nil
}

func (s *Server) bind(nid wire.NewID) error {
	switch nid.Interface {
	case wl.ShmInterface:
		s.send(nid.ID, "format", uint32(wl.ShmFormatArgb8888))
		s.send(nid.ID, "format", uint32(wl.ShmFormatXrgb8888))

	case wl.SeatInterface:
		s.send(nid.ID, "capabilities", uint32(s.opts.SeatCapabilities))
		if nid.Version >= 2 {
			s.send(nid.ID, "name", "seat0")
		}

	case xdg.WmBaseInterface:
		s.wmBase = nid.ID
		if s.opts.PingOnBind != 0 {
			s.send(nid.ID, "ping", s.opts.PingOnBind)
		}
	}

	return nil
}

func (s *Server) getKeyboard(id uint32) error {
	s.keyboard = id

	mfd, err := unix.MemfdCreate("keymap", unix.MFD_CLOEXEC)
	if err != nil {
		return fmt.Errorf("create keymap: %w", err)
	}
	defer unix.Close(mfd)

	_, err = unix.Write(mfd, []byte(keymap))
	if err != nil {
		return fmt.Errorf("write keymap: %w", err)
	}

	s.send(id, "keymap", uint32(wl.KeyboardKeymapFormatXkbV1), fd(mfd), uint32(len(keymap)))
	if s.objects[id].version >= 4 {
		s.send(id, "repeat_info", int32(25), int32(600))
	}
	return nil
}

func (s *Server) commit(r *Request) error {
	if id, ok := s.pending[r.Object]; ok {
		delete(s.pending, r.Object)
		if id != 0 {
			pixels, err := s.snapshot(id)
			if err != nil {
				return err
			}
			r.Pixels = pixels

			// The pixels have been copied, so the buffer can be reused.
			s.send(id, "release")
		}
	}

	if (r.Object == s.roleSurface) && (s.toplevel != 0) && !s.configured {
		s.configured = true
		if s.decoration != 0 {
			mode := s.decorationMode
			if mode == 0 {
				mode = uint32(xdg.DecorationModeServerSide)
			}
			s.send(s.decoration, "configure", mode)
		}
		s.send(s.toplevel, "configure", int32(0), int32(0), []byte{})
		s.send(s.xdgSurface, "configure", s.nextSerial())
	}

	if s.opts.AutoFrame && ((s.opts.MaxFrames == 0) || (s.fired < s.opts.MaxFrames)) {
		s.fireFrames()
	}
	return nil
}

func (s *Server) snapshot(id uint32) ([]byte, error) {
	buf, ok := s.buffers[id]
	if !ok {
		return nil, fmt.Errorf("attach of unknown buffer %v", id)
	}
	p, ok := s.pools[buf.pool]
	if !ok {
		return nil, fmt.Errorf("buffer %v has no pool", id)
	}

	start := int(buf.offset)
	end := start + int(buf.stride)*int(buf.height)
	if end > len(p.mmap) {
		return nil, fmt.Errorf("buffer %v extends past end of pool", id)
	}
	return append([]byte(nil), p.mmap[start:end]...), nil
}

func (s *Server) fireFrames() {
	if len(s.frames) == 0 {
		return
	}

	frames := s.frames
	s.frames = nil
	s.fired++

	for _, id := range frames {
		s.send(id, "done", s.nextSerial())
		delete(s.objects, id)
		s.send(1, "delete_id", id)
	}
}
