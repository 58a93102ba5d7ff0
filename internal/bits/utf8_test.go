package bits_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/icza/bitio"
	"github.com/icza/mighty"

	"github.com/audefa/flacparse/internal/bits"
)

func TestDecodeUTF8Int(t *testing.T) {
	eq := mighty.Eq(t)
	golden := []struct {
		data []byte
		want uint64
		n    int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x7F}, 127, 1},
		{[]byte{0xC2, 0x80}, 128, 2},
		{[]byte{0xDF, 0xBF}, 0x7FF, 2},
		{[]byte{0xE0, 0xA0, 0x80}, 0x800, 3},
		{[]byte{0xEF, 0xBF, 0xBF}, 0xFFFF, 3},
		{[]byte{0xF0, 0x90, 0x80, 0x80}, 0x10000, 4},
		{[]byte{0xF7, 0xBF, 0xBF, 0xBF}, 1<<21 - 1, 4},
		{[]byte{0xFB, 0xBF, 0xBF, 0xBF, 0xBF}, 1<<26 - 1, 5},
		{[]byte{0xFD, 0xBF, 0xBF, 0xBF, 0xBF, 0xBF}, 1<<31 - 1, 6},
		{[]byte{0xFE, 0xBF, 0xBF, 0xBF, 0xBF, 0xBF, 0xBF}, 1<<36 - 1, 7},
		// Trailing bytes beyond the sequence are ignored.
		{[]byte{0x01, 0xFF, 0xFF}, 1, 1},
	}
	for _, g := range golden {
		x, n, err := bits.DecodeUTF8Int(g.data)
		if err != nil {
			t.Errorf("data %x: unexpected error: %v", g.data, err)
			continue
		}
		eq(g.want, x)
		eq(g.n, n)
	}
}

func TestDecodeUTF8IntInvalid(t *testing.T) {
	golden := [][]byte{
		{0x80},             // continuation byte at start
		{0xBF},             // continuation byte at start
		{0xFF},             // invalid leading byte
		{0xC2, 0x00},       // malformed continuation
		{0xC2, 0xC0},       // malformed continuation
		{0xE0, 0x80, 0xFF}, // malformed final continuation
	}
	for _, data := range golden {
		if _, _, err := bits.DecodeUTF8Int(data); err != bits.ErrInvalidUTF8 {
			t.Errorf("data %x: expected ErrInvalidUTF8, got %v", data, err)
		}
	}
}

func TestDecodeUTF8IntShort(t *testing.T) {
	golden := [][]byte{
		{},
		{0xC2},
		{0xE0, 0x80},
		{0xFE, 0xBF, 0xBF, 0xBF, 0xBF, 0xBF},
	}
	for _, data := range golden {
		if _, _, err := bits.DecodeUTF8Int(data); err != io.ErrUnexpectedEOF {
			t.Errorf("data %x: expected io.ErrUnexpectedEOF, got %v", data, err)
		}
	}
}

func TestUTF8IntRoundTrip(t *testing.T) {
	eq := mighty.Eq(t)
	buf := new(bytes.Buffer)
	for k := uint(0); k <= 36; k++ {
		for _, want := range []uint64{1<<k - 1, 1 << k, 1<<k + 1} {
			if want > 1<<36-1 {
				continue
			}
			buf.Reset()
			bw := bitio.NewWriter(buf)
			if err := bits.EncodeUTF8Int(bw, want); err != nil {
				t.Fatalf("error encoding %d: %v", want, err)
			}
			if err := bw.Close(); err != nil {
				t.Fatalf("error closing the buffer: %v", err)
			}

			got, n, err := bits.DecodeUTF8Int(buf.Bytes())
			if err != nil {
				t.Fatalf("error decoding %d: %v", want, err)
			}
			eq(want, got)
			eq(buf.Len(), n)
		}
	}
}
