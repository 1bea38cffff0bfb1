package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxFrame bounds a single frame; a full init batch is a few kilobytes.
const MaxFrame = 1 << 20

var ErrFrameSize = errors.New("invalid frame length")

// Envelope is one framed text message. Type is the optional header line
// (`init`, a phase name, `error`); Body is everything after it. Command
// batches without a header have an empty Type.
type Envelope struct {
	Type string
	Body string
}

// Kind routes an envelope to its handler: init batches build the match,
// anything else is a tick.
func (e Envelope) Kind() string {
	switch e.Type {
	case TypeInit, TypeError:
		return e.Type
	default:
		return TypeTick
	}
}

// Encode renders the envelope as the frame payload.
func (e Envelope) Encode() []byte {
	if e.Type == "" {
		return []byte(e.Body)
	}
	return []byte(e.Type + "\n" + e.Body)
}

// Decode splits a frame payload. A first line holding a command token
// (`H10:R90`) is not a header.
func Decode(payload []byte) Envelope {
	text := string(payload)
	first, rest, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(first)
	if first == "" || strings.Contains(first, ":") {
		return Envelope{Body: text}
	}
	return Envelope{Type: first, Body: rest}
}

// ReadEnvelope reads a single length-prefixed frame. The 4-byte LE prefix
// counts payload bytes.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return Envelope{}, fmt.Errorf("read length: %w", err)
	}

	// Guard against corrupted frames or malicious payloads.
	if length == 0 || length > MaxFrame {
		return Envelope{}, fmt.Errorf("%w: %d", ErrFrameSize, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Envelope{}, fmt.Errorf("read payload: %w", err)
	}
	return Decode(payload), nil
}

func WriteEnvelope(w io.Writer, env Envelope) error {
	payload := env.Encode()
	if len(payload) == 0 || len(payload) > MaxFrame {
		return fmt.Errorf("%w: %d", ErrFrameSize, len(payload))
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
		return fmt.Errorf("write length: %w", err)
	}

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}

	return nil
}
