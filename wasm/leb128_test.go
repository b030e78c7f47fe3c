package wasm_test

import (
	"bytes"
	"testing"

	"github.com/wasmlens/wasmlens/wasm"
)

func TestLEB128_UnsignedRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 63, 64, 127, 128, 300, 1 << 20, 1<<32 - 1}
	for _, v := range values {
		data := wasm.EncodeLEB128u(v)
		got, err := wasm.ReadLEB128u(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("ReadLEB128u(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestLEB128_SignedRoundTrip(t *testing.T) {
	values := []int32{0, -1, 1, 63, -63, 64, -64, 65, -65, 1 << 20, -(1 << 20)}
	for _, v := range values {
		data := wasm.EncodeLEB128s(v)
		got, err := wasm.ReadLEB128s(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("ReadLEB128s(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestLEB128_Unsigned64RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 1 << 40, 1<<64 - 1}
	for _, v := range values {
		data := wasm.EncodeLEB128u64(v)
		got, err := wasm.ReadLEB128u64(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("ReadLEB128u64(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestLEB128_Signed64RoundTrip(t *testing.T) {
	values := []int64{0, -1, 1 << 40, -(1 << 40)}
	for _, v := range values {
		data := wasm.EncodeLEB128s64(v)
		got, err := wasm.ReadLEB128s64(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("ReadLEB128s64(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestLEB128_UnsignedOverflow(t *testing.T) {
	// Five continuation bytes with the continuation bit always set never
	// terminates within the 32-bit budget.
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	if _, err := wasm.ReadLEB128u(bytes.NewReader(data)); err != wasm.ErrOverflow {
		t.Errorf("err = %v, want ErrOverflow", err)
	}
}

func TestLEB128_TruncatedInput(t *testing.T) {
	data := []byte{0x80} // continuation bit set, no following byte
	if _, err := wasm.ReadLEB128u(bytes.NewReader(data)); err == nil {
		t.Error("expected an error on truncated LEB128 input, got nil")
	}
}
