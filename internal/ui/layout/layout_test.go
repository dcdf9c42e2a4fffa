package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestContentHeight(t *testing.T) {
	if got := ContentHeight(30); got != 24 {
		t.Errorf("ContentHeight(30) = %d, want 24", got)
	}
	if got := ContentHeight(4); got != 0 {
		t.Errorf("ContentHeight(4) = %d, want 0", got)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 40) {
		t.Error("expected 79 columns to be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("expected minimum size to be accepted")
	}
}

func TestRenderHeaderShowsStatus(t *testing.T) {
	out := RenderHeader("Problems", HeaderStatus{Solved: 2, Total: 6, User: "ada"}, 100)
	for _, want := range []string{"codebench", "Problems", "2/6", "ada"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}

	out = RenderHeader("Problems", HeaderStatus{}, 100)
	if !strings.Contains(out, "signed out") {
		t.Errorf("expected signed out marker:\n%s", out)
	}
}

func TestRenderFramePadsContent(t *testing.T) {
	header := RenderHeader("x", HeaderStatus{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	if h := lipgloss.Height(frame); h != 30 {
		t.Errorf("frame height = %d, want 30", h)
	}
}
