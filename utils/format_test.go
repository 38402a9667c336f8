package utils

import (
	"strings"
	"testing"
	"time"
)

func TestUtils_FormatTime(t *testing.T) {
	tests := map[time.Duration]string{
		42 * time.Second: "42.00s",
		90 * time.Second: "1m 30.00s",
		3*time.Hour + 4*time.Minute + 5*time.Second: "3h 4m 5.00s",
	}
	for d, expected := range tests {
		if got := FormatTime(d); got != expected {
			t.Errorf("formatted duration expected to be %v. Got %v", expected, got)
		}
	}
}

func TestUtils_DecorateText(t *testing.T) {
	msg := DecorateText("done", SuccessMessage)
	if !strings.HasPrefix(msg, SuccessColor) {
		t.Errorf("decorated message expected to start with the success color code")
	}
	if !strings.HasSuffix(msg, DefaultColor) {
		t.Errorf("decorated message expected to reset the terminal color")
	}
}

func TestUtils_MathHelpers(t *testing.T) {
	if got := Min(3, 2); got != 2 {
		t.Errorf("Min expected to be %v. Got %v", 2, got)
	}
	if got := Min(2, 3); got != 2 {
		t.Errorf("Min expected to be %v. Got %v", 2, got)
	}
	if got := Max(3.5, 7.2); got != 7.2 {
		t.Errorf("Max expected to be %v. Got %v", 7.2, got)
	}
	if got := Abs(-4); got != 4 {
		t.Errorf("Abs expected to be %v. Got %v", 4, got)
	}
	if got := Clamp(15, 0, 10); got != 10 {
		t.Errorf("Clamp expected to be %v. Got %v", 10, got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp expected to be %v. Got %v", 0, got)
	}
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp expected to be %v. Got %v", 5, got)
	}
}
