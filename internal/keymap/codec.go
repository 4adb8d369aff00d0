package keymap

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/jetkvm/sun3kbd/internal/action"
	"github.com/jetkvm/sun3kbd/internal/keycode"
)

// Format is a persisted keymap encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatBinary Format = "binary"
)

// FormatVersion is written into every encoded keymap.
const FormatVersion = "1.0.0"

// accepted is the range of document versions Decode understands.
var accepted = mustConstraint("~1")

func mustConstraint(c string) *semver.Constraints {
	cs, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cs
}

var ErrUnsupportedVersion = errors.New("unsupported keymap version")

// ParseFormat accepts a format name or a common alias ("yml", "bin").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "binary", "bin":
		return FormatBinary, nil
	}
	return "", fmt.Errorf("unknown keymap format %q", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Document is the text form shared by the JSON, YAML and TOML encodings.
// Keycodes and actions are stored by name.
type Document struct {
	Version string       `json:"version" yaml:"version" toml:"version"`
	Name    string       `json:"name" yaml:"name" toml:"name"`
	Rows    int          `json:"rows" yaml:"rows" toml:"rows"`
	Cols    int          `json:"cols" yaml:"cols" toml:"cols"`
	Layers  [][][]string `json:"layers" yaml:"layers" toml:"layers"`
	Fn      []FnEntry    `json:"fn" yaml:"fn" toml:"fn"`
}

type FnEntry struct {
	Layer    uint8  `json:"layer" yaml:"layer" toml:"layer"`
	Fallback string `json:"fallback" yaml:"fallback" toml:"fallback"`
	Action   string `json:"action" yaml:"action" toml:"action"`
}

// Document converts p into its text form.
func (p *Provider) Document() Document {
	doc := Document{
		Version: FormatVersion,
		Name:    p.name,
		Rows:    Rows,
		Cols:    Cols,
		Layers:  make([][][]string, len(p.layers)),
		Fn:      make([]FnEntry, len(p.fn)),
	}
	for l, m := range p.layers {
		doc.Layers[l] = make([][]string, Rows)
		for r := range m {
			row := make([]string, Cols)
			for c, kc := range m[r] {
				row[c] = kc.String()
			}
			doc.Layers[l][r] = row
		}
	}
	for i, s := range p.fn {
		doc.Fn[i] = FnEntry{Layer: s.Layer, Fallback: s.Fallback.String(), Action: s.Action.String()}
	}
	return doc
}

// Provider builds a Provider from a decoded document.
func (d Document) Provider() (*Provider, error) {
	if err := checkVersion(d.Version); err != nil {
		return nil, err
	}
	if d.Rows != Rows || d.Cols != Cols {
		return nil, fmt.Errorf("keymap %q: matrix is %dx%d, want %dx%d", d.Name, d.Rows, d.Cols, Rows, Cols)
	}
	layers := make([]Matrix, len(d.Layers))
	for l, rows := range d.Layers {
		if len(rows) != Rows {
			return nil, fmt.Errorf("keymap %q: layer %d has %d rows, want %d", d.Name, l, len(rows), Rows)
		}
		for r, cols := range rows {
			if len(cols) != Cols {
				return nil, fmt.Errorf("keymap %q: layer %d row %d has %d columns, want %d", d.Name, l, r, len(cols), Cols)
			}
			for c, name := range cols {
				kc, err := keycode.Parse(name)
				if err != nil {
					return nil, fmt.Errorf("keymap %q: layer %d row %d col %d: %w", d.Name, l, r, c, err)
				}
				layers[l][r][c] = kc
			}
		}
	}
	fn := make([]FnSlot, len(d.Fn))
	for i, e := range d.Fn {
		fallback, err := keycode.Parse(e.Fallback)
		if err != nil {
			return nil, fmt.Errorf("keymap %q: fn %d fallback: %w", d.Name, i, err)
		}
		a, err := action.Parse(e.Action)
		if err != nil {
			return nil, fmt.Errorf("keymap %q: fn %d action: %w", d.Name, i, err)
		}
		fn[i] = FnSlot{Layer: e.Layer, Fallback: fallback, Action: a}
	}
	return NewProvider(d.Name, layers, fn)
}

func checkVersion(s string) error {
	v, err := semver.NewVersion(s)
	if err != nil {
		return fmt.Errorf("keymap version %q: %w", s, err)
	}
	if !accepted.Check(v) {
		return fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
	return nil
}

// Encode writes p to w in the given format.
func Encode(w io.Writer, p *Provider, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p.Document())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p.Document()); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		b, err := toml.Marshal(p.Document())
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatBinary:
		return encodeBinary(w, p)
	}
	return fmt.Errorf("unknown keymap format %q", format)
}

// Decode reads a keymap written by Encode.
func Decode(r io.Reader, format Format) (*Provider, error) {
	if format == FormatBinary {
		return decodeBinary(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	var doc Document
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unknown keymap format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s keymap: %w", format, err)
	}
	return doc.Provider()
}

var binaryMagic = [4]byte{'S', '3', 'K', 'M'}

type binaryHeader struct {
	Magic  [4]byte
	Major  uint8
	Minor  uint8
	Layers uint16
	Rows   uint8
	Cols   uint8
	Fn     uint8
	Name   uint8
}

type binarySlot struct {
	Layer    uint8
	Fallback uint8
	Action   uint16
}

// encodeBinary lays the tables out the way they sit in firmware flash:
// header, name, every layer in row-major order, then the Fn slots.
func encodeBinary(w io.Writer, p *Provider) error {
	v := semver.MustParse(FormatVersion)
	hdr := binaryHeader{
		Magic:  binaryMagic,
		Major:  uint8(v.Major()),
		Minor:  uint8(v.Minor()),
		Layers: uint16(len(p.layers)),
		Rows:   Rows,
		Cols:   Cols,
		Fn:     uint8(len(p.fn)),
	}
	name := p.name
	if len(name) > MaxNameLen {
		return fmt.Errorf("keymap name is %d bytes, binary form holds %d", len(name), MaxNameLen)
	}
	hdr.Name = uint8(len(name))
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.BigEndian, &hdr); err != nil {
		return err
	}
	if _, err := bw.WriteString(name); err != nil {
		return err
	}
	for _, m := range p.layers {
		for r := range m {
			for _, kc := range m[r] {
				if err := bw.WriteByte(byte(kc)); err != nil {
					return err
				}
			}
		}
	}
	for _, s := range p.fn {
		slot := binarySlot{Layer: s.Layer, Fallback: uint8(s.Fallback), Action: s.Action.Code()}
		if err := binary.Write(bw, binary.BigEndian, &slot); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func decodeBinary(r io.Reader) (*Provider, error) {
	var hdr binaryHeader
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read keymap header: %w", err)
	}
	if hdr.Magic != binaryMagic {
		return nil, fmt.Errorf("not a binary keymap: magic %q", hdr.Magic[:])
	}
	if !accepted.Check(semver.New(uint64(hdr.Major), uint64(hdr.Minor), 0, "", "")) {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, hdr.Major, hdr.Minor)
	}
	if hdr.Rows != Rows || hdr.Cols != Cols {
		return nil, fmt.Errorf("binary keymap: matrix is %dx%d, want %dx%d", hdr.Rows, hdr.Cols, Rows, Cols)
	}

	name := make([]byte, hdr.Name)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("read keymap name: %w", err)
	}

	cells := make([]byte, int(hdr.Layers)*Rows*Cols)
	if _, err := io.ReadFull(r, cells); err != nil {
		return nil, fmt.Errorf("read keymap layers: %w", err)
	}
	layers := make([]Matrix, hdr.Layers)
	br := bytes.NewReader(cells)
	for l := range layers {
		for row := 0; row < Rows; row++ {
			for col := 0; col < Cols; col++ {
				b, _ := br.ReadByte()
				layers[l][row][col] = keycode.Keycode(b)
			}
		}
	}

	fn := make([]FnSlot, hdr.Fn)
	for i := range fn {
		var slot binarySlot
		if err := binary.Read(r, binary.BigEndian, &slot); err != nil {
			return nil, fmt.Errorf("read fn slot %d: %w", i, err)
		}
		a, err := action.FromCode(slot.Action)
		if err != nil {
			return nil, fmt.Errorf("fn slot %d: %w", i, err)
		}
		fn[i] = FnSlot{Layer: slot.Layer, Fallback: keycode.Keycode(slot.Fallback), Action: a}
	}
	return NewProvider(string(name), layers, fn)
}
