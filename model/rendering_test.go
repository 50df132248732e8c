package model

import (
	"bytes"
	"testing"
)

func TestTerminalRendererDisplay(t *testing.T) {
	g := mustGrid(t, 2, 2)
	g, _ = g.WithToggled(0, 0)
	g, _ = g.WithToggled(1, 1)

	var buf bytes.Buffer
	if err := NewTerminalRenderer(&buf).Display(g); err != nil {
		t.Fatal(err)
	}

	want := gridPosBlock + gridPosEmpty + "\n" + gridPosEmpty + gridPosBlock + "\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestTerminalRendererClear(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTerminalRenderer(&buf).Clear(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != clearScreen {
		t.Errorf("expected clear sequence, got %q", buf.String())
	}
}
