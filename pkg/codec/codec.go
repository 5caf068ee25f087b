package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/birdayz/morse/pkg/morse"
)

// Mode selects the transcoding direction.
type Mode string

const (
	ModeEncode Mode = "encode"
	ModeDecode Mode = "decode"
)

func (m *Mode) String() string {
	return string(*m)
}

func (m *Mode) Set(v string) error {
	switch v {
	case "encode", "decode":
		*m = Mode(v)
		return nil
	default:
		return fmt.Errorf("must be one of: encode, decode")
	}
}

func (m *Mode) Type() string {
	return "Mode"
}

// Codec turns one payload into another.
type Codec interface {
	Transcode(in []byte) ([]byte, error)
}

// Morse runs payloads through the Morse table. It never fails.
type Morse struct {
	Mode Mode
}

func (c Morse) Transcode(in []byte) ([]byte, error) {
	if c.Mode == ModeDecode {
		return []byte(morse.Decode(string(in))), nil
	}
	return []byte(morse.Encode(string(in))), nil
}

// MsgPack unwraps a msgpack-encoded string and hands it to Next. The
// result is returned as plain bytes.
type MsgPack struct {
	Next Codec
}

func (c MsgPack) Transcode(in []byte) ([]byte, error) {
	var s string
	if err := msgpack.Unmarshal(in, &s); err != nil {
		return nil, fmt.Errorf("decode msgpack payload: %w", err)
	}
	return c.Next.Transcode([]byte(s))
}

// ForMode returns the Morse codec for mode, wrapped in MsgPack when
// unwrap is set.
func ForMode(mode Mode, unwrap bool) (Codec, error) {
	var c Codec
	switch mode {
	case ModeEncode, ModeDecode:
		c = Morse{Mode: mode}
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if unwrap {
		c = MsgPack{Next: c}
	}
	return c, nil
}
