// SPDX-License-Identifier: GPL-2.0-or-later

package math

// Lerp computes a weighted average of a and b.
func Lerp(a, b, frac float32) float32 {
	return a + frac*(b-a)
}
