package hw

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTracerText(t *testing.T) {
	c, bus := newTestCPU(t, Model6809, 0x86, 0x42, 0x5F) // LDA #$42, CLRB
	var out bytes.Buffer
	tick := uint32(0)
	tr := &Tracer{
		Mem:   sliceMem(bus.mem[:]),
		W:     &out,
		Ticks: func() uint32 { return tick },
	}
	tr.Attach(c)

	stepInstr(t, c, bus)
	tick = 100
	stepInstr(t, c, bus)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "LDA #$42") {
		t.Errorf("line = %q", lines[0])
	}
	if !strings.Contains(lines[0], "A:00") || !strings.Contains(lines[0], "T:0") {
		t.Errorf("line = %q", lines[0])
	}
	// The second line sees the state after LDA.
	if !strings.Contains(lines[1], "CLRB") || !strings.Contains(lines[1], "A:42") {
		t.Errorf("line = %q", lines[1])
	}
	if !strings.Contains(lines[1], "T:100") {
		t.Errorf("line = %q", lines[1])
	}
}

func TestTracerJSON(t *testing.T) {
	c, bus := newTestCPU(t, Model6809, 0x86, 0x42)
	var out bytes.Buffer
	tr := &Tracer{
		Mem:  sliceMem(bus.mem[:]),
		W:    &out,
		JSON: true,
	}
	tr.Attach(c)
	stepInstr(t, c, bus)

	var rec struct {
		PC   uint16 `json:"pc"`
		Op   string `json:"op"`
		Oper string `json:"oper"`
		A    uint8  `json:"a"`
		CC   uint8  `json:"cc"`
	}
	if err := json.Unmarshal(out.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if rec.PC != testOrg || rec.Op != "LDA" || rec.Oper != "#$42" {
		t.Errorf("rec = %+v", rec)
	}
}
