// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Errorf("Lerp(0,10,0.5) = %v, want 5", got)
	}
	if got := Lerp(2, 2, 0.75); got != 2 {
		t.Errorf("Lerp(2,2,0.75) = %v, want 2", got)
	}
	if got := Lerp(1, 3, 0); got != 1 {
		t.Errorf("Lerp(1,3,0) = %v, want 1", got)
	}
	if got := Lerp(1, 3, 1); got != 3 {
		t.Errorf("Lerp(1,3,1) = %v, want 3", got)
	}
}
