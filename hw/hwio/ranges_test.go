package hwio

import "testing"

type stubIO struct{ id uint8 }

func (s *stubIO) Read8(addr uint16) uint8       { return s.id }
func (s *stubIO) Peek8(addr uint16) uint8       { return s.id }
func (s *stubIO) Write8(addr uint16, val uint8) {}

func TestRangeSearch(t *testing.T) {
	var rt rangeTable
	a, b := &stubIO{1}, &stubIO{2}
	if err := rt.InsertRange(0x1000, 0x1FFF, a); err != nil {
		t.Fatal(err)
	}
	if err := rt.InsertRange(0x8000, 0xFFFF, b); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		addr uint16
		want BankIO8
	}{
		{0x0FFF, nil},
		{0x1000, a},
		{0x1ABC, a},
		{0x1FFF, a},
		{0x2000, nil},
		{0x8000, b},
		{0xFFFF, b},
	}
	for _, tt := range tests {
		if got := rt.Search(tt.addr); got != tt.want {
			t.Errorf("Search(%04X) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestRangeOverlap(t *testing.T) {
	var rt rangeTable
	if err := rt.InsertRange(0x1000, 0x1FFF, &stubIO{1}); err != nil {
		t.Fatal(err)
	}
	for _, r := range [][2]uint16{
		{0x0000, 0x1000},
		{0x1FFF, 0x2FFF},
		{0x1400, 0x14FF},
		{0x0000, 0xFFFF},
	} {
		if err := rt.InsertRange(r[0], r[1], &stubIO{2}); err == nil {
			t.Errorf("InsertRange(%04X, %04X) succeeded, want overlap error", r[0], r[1])
		}
	}
}

func TestRangeRemove(t *testing.T) {
	var rt rangeTable
	a := &stubIO{1}
	rt.InsertRange(0x1000, 0x1FFF, a)
	rt.InsertRange(0x3000, 0x3FFF, &stubIO{2})

	rt.RemoveRange(0x3000, 0x3FFF)
	if got := rt.Search(0x3000); got != nil {
		t.Errorf("Search after remove = %v, want nil", got)
	}
	if got := rt.Search(0x1234); got != a {
		t.Errorf("unrelated range was removed")
	}
}
