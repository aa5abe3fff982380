package bitstream

import (
	"bytes"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	bits := Bits{1, 0, 1, 1, 0, 0, 1, 0, 1, 1}
	packed := Pack(bits)

	if len(packed) != 2 {
		t.Fatalf("packed len = %d, want 2", len(packed))
	}

	unpacked := Unpack(packed)
	if len(unpacked) != 16 {
		t.Fatalf("unpacked len = %d, want 16", len(unpacked))
	}

	for i, b := range bits {
		if unpacked[i] != b {
			t.Fatalf("bit %d = %d, want %d", i, unpacked[i], b)
		}
	}

	// Padding bits are zero.
	for i := len(bits); i < 16; i++ {
		if unpacked[i] != 0 {
			t.Fatalf("padding bit %d = %d, want 0", i, unpacked[i])
		}
	}
}

func TestPackMSBFirst(t *testing.T) {
	packed := Pack(Bits{1, 0, 0, 0, 0, 0, 0, 1})
	if !bytes.Equal(packed, []byte{0x81}) {
		t.Fatalf("packed = %#v, want [0x81]", packed)
	}
}

func TestPackEmpty(t *testing.T) {
	if got := Pack(nil); got != nil {
		t.Fatalf("Pack(nil) = %v, want nil", got)
	}
	if got := Unpack(nil); got != nil {
		t.Fatalf("Unpack(nil) = %v, want nil", got)
	}
}

func TestOnesZerosBalance(t *testing.T) {
	bits := Bits{1, 1, 0, 1}
	if bits.Ones() != 3 {
		t.Fatalf("Ones = %d, want 3", bits.Ones())
	}
	if bits.Zeros() != 1 {
		t.Fatalf("Zeros = %d, want 1", bits.Zeros())
	}
	if bits.Balance() != 0.75 {
		t.Fatalf("Balance = %v, want 0.75", bits.Balance())
	}
	if (Bits{}).Balance() != 0 {
		t.Fatal("empty Balance should be 0")
	}
}

func TestFloatsShift(t *testing.T) {
	f := Bits{0, 1, 1}.Floats(-0.5)
	want := []float64{-0.5, 0.5, 0.5}
	for i := range want {
		if f[i] != want[i] {
			t.Fatalf("f[%d] = %v, want %v", i, f[i], want[i])
		}
	}
}
