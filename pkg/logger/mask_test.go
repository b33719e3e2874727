package logger

import "testing"

func TestMaskSecret(t *testing.T) {
	got := MaskSecret("abcd0123456789wxyz")
	if got != "abcd...wxyz" {
		t.Fatalf("unexpected mask: %s", got)
	}
	if MaskSecret("short") != "*****" {
		t.Fatalf("short secrets must be fully redacted")
	}
	if MaskSecret("") != "" {
		t.Fatalf("empty secret should mask to empty")
	}
}
