package raster

import "testing"

func TestBitsStrideIsCeilWidthOver8(t *testing.T) {
	cases := []struct{ width, stride int }{
		{1, 1}, {7, 1}, {8, 1}, {9, 2}, {16, 2}, {17, 3}, {576, 72},
	}
	for _, c := range cases {
		b := NewBits(c.width, 4)
		if b.Stride != c.stride {
			t.Errorf("width %d: got stride %d, want %d", c.width, b.Stride, c.stride)
		}
	}
}

func TestBitsSetGetRoundTrip(t *testing.T) {
	b := NewBits(17, 3)
	pts := [][2]int{{0, 0}, {7, 0}, {8, 0}, {16, 2}, {3, 1}}
	for _, p := range pts {
		b.SetBit(p[0], p[1])
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 17; x++ {
			want := byte(0)
			for _, p := range pts {
				if p[0] == x && p[1] == y {
					want = 1
				}
			}
			if got := b.GetBit(x, y); got != want {
				t.Fatalf("(%d,%d): got %d want %d", x, y, got, want)
			}
		}
	}
}

func TestBitsSliceSharesStorage(t *testing.T) {
	b := NewBits(8, 48)
	b.SetBit(0, 25)
	slice := b.Slice(24, 24)
	if slice.Height != 24 {
		t.Fatalf("expected slice height 24, got %d", slice.Height)
	}
	if slice.GetBit(0, 1) != 1 {
		t.Fatalf("expected slice row 1 (source row 25) to carry the set bit")
	}
}

func TestGrayNewIsAllWhite(t *testing.T) {
	g := NewGray(4, 4)
	for _, v := range g.Pix {
		if v != 0 {
			t.Fatalf("expected new Gray buffer to be all-zero (white), found %d", v)
		}
	}
}
