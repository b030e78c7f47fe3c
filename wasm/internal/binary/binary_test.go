package binary_test

import (
	"bytes"
	"testing"

	"github.com/wasmlens/wasmlens/wasm/internal/binary"
)

func TestWriterReader_U32RoundTrip(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU32(300)

	r := binary.NewReader(bytes.NewReader(w.Bytes()))
	got, err := r.ReadU32()
	if err != nil {
		t.Fatalf("ReadU32: %v", err)
	}
	if got != 300 {
		t.Errorf("ReadU32() = %d, want 300", got)
	}
}

func TestWriterReader_NameRoundTrip(t *testing.T) {
	w := binary.NewWriter()
	w.WriteName("wasmlens")

	r := binary.NewReader(bytes.NewReader(w.Bytes()))
	got, err := r.ReadName()
	if err != nil {
		t.Fatalf("ReadName: %v", err)
	}
	if got != "wasmlens" {
		t.Errorf("ReadName() = %q, want %q", got, "wasmlens")
	}
}

func TestWriterReader_U32LERoundTrip(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU32LE(0x6D736100)

	r := binary.NewReader(bytes.NewReader(w.Bytes()))
	got, err := r.ReadU32LE()
	if err != nil {
		t.Fatalf("ReadU32LE: %v", err)
	}
	if got != 0x6D736100 {
		t.Errorf("ReadU32LE() = 0x%x, want 0x6D736100", got)
	}
}

func TestReader_PositionAdvancesWithEachRead(t *testing.T) {
	r := binary.NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
	if r.Position() != 0 {
		t.Fatalf("Position() = %d, want 0", r.Position())
	}
	if _, err := r.ReadBytes(2); err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if r.Position() != 2 {
		t.Errorf("Position() = %d, want 2", r.Position())
	}
}

func TestReader_ReadNameRejectsInvalidUTF8(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU32(2)
	w.WriteBytes([]byte{0xFF, 0xFE})

	r := binary.NewReader(bytes.NewReader(w.Bytes()))
	if _, err := r.ReadName(); err == nil {
		t.Error("expected an error decoding an invalid UTF-8 name, got nil")
	}
}

func TestReader_ReadU32OverflowsPastFiveBytes(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	r := binary.NewReader(bytes.NewReader(data))
	if _, err := r.ReadU32(); err == nil {
		t.Error("expected an overflow error, got nil")
	}
}

func TestReader_ReadRemaining(t *testing.T) {
	r := binary.NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
	if _, err := r.ReadByte(); err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	rest, err := r.ReadRemaining()
	if err != nil {
		t.Fatalf("ReadRemaining: %v", err)
	}
	if !bytes.Equal(rest, []byte{0x02, 0x03, 0x04}) {
		t.Errorf("ReadRemaining() = %v, want [2 3 4]", rest)
	}
}

func TestParseError_UnwrapsToUnderlyingError(t *testing.T) {
	r := binary.NewReader(bytes.NewReader(nil))
	_, err := r.ReadByte()
	wrapped := r.WrapError("test section", err)

	pe, ok := wrapped.(*binary.ParseError)
	if !ok {
		t.Fatalf("WrapError returned %T, want *binary.ParseError", wrapped)
	}
	if pe.Unwrap() != err {
		t.Errorf("Unwrap() = %v, want %v", pe.Unwrap(), err)
	}
}
