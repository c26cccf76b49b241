// Package protocol defines the types necessary for unmarshalling a
// protocol-specification XML file, and carries the specifications of
// the interfaces this module speaks.
package protocol

import (
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strconv"
)

type Protocol struct {
	Name      string `xml:"name,attr"`
	Copyright string `xml:"copyright"`

	Interfaces []Interface `xml:"interface"`
}

// Interface returns the interface called name.
func (p Protocol) Interface(name string) (Interface, bool) {
	i := slices.IndexFunc(p.Interfaces, func(i Interface) bool { return i.Name == name })
	if i < 0 {
		return Interface{}, false
	}
	return p.Interfaces[i], true
}

type Interface struct {
	Name        string      `xml:"name,attr"`
	Version     int         `xml:"version,attr"`
	Description Description `xml:"description"`

	Requests []Op   `xml:"request"`
	Events   []Op   `xml:"event"`
	Enums    []Enum `xml:"enum"`
}

// Opcode returns the opcode of the named request or event, which is
// its index in declaration order.
func Opcode(ops []Op, name string) (uint16, bool) {
	i := slices.IndexFunc(ops, func(op Op) bool { return op.Name == name })
	if i < 0 {
		return 0, false
	}
	return uint16(i), true
}

type Description struct {
	Summary string `xml:"summary,attr"`
	Full    string `xml:",chardata"`
}

type Op struct {
	Name        string      `xml:"name,attr"`
	Type        string      `xml:"type,attr"`
	Since       int         `xml:"since,attr"`
	Description Description `xml:"description"`

	Args []Arg `xml:"arg"`
}

type Arg struct {
	Name    string `xml:"name,attr"`
	Summary string `xml:"summary,attr"`

	Type      string `xml:"type,attr"`
	Interface string `xml:"interface,attr"`
	AllowNull bool   `xml:"allow-null,attr"`
	Enum      string `xml:"enum,attr"`
}

type Enum struct {
	Name        string      `xml:"name,attr"`
	Bitfield    bool        `xml:"bitfield,attr"`
	Description Description `xml:"description"`

	Entries []Entry `xml:"entry"`
}

type Entry struct {
	Name    string `xml:"name,attr"`
	Summary string `xml:"summary,attr"`
	Value   string `xml:"value,attr"`
}

func (e Entry) Int() (int, error) {
	v, err := strconv.ParseInt(e.Value, 0, 0)
	return int(v), err
}

// Decode reads a protocol specification from r.
func Decode(r io.Reader) (Protocol, error) {
	var p Protocol
	err := xml.NewDecoder(r).Decode(&p)
	return p, err
}

//go:embed xml/*.xml
var files embed.FS

// Builtin returns the specifications of wayland, xdg-shell, and
// xdg-decoration.
func Builtin() ([]Protocol, error) {
	names, err := fs.Glob(files, "xml/*.xml")
	if err != nil {
		return nil, err
	}

	protocols := make([]Protocol, 0, len(names))
	for _, name := range names {
		file, err := files.Open(name)
		if err != nil {
			return nil, err
		}
		p, err := Decode(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %v: %w", name, err)
		}
		protocols = append(protocols, p)
	}
	return protocols, nil
}

// FindInterface searches protocols for the interface called name.
func FindInterface(protocols []Protocol, name string) (Interface, bool) {
	for _, p := range protocols {
		if i, ok := p.Interface(name); ok {
			return i, true
		}
	}
	return Interface{}, false
}
