package common

import "testing"

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	if len(a) != 32 || len(b) != 32 {
		t.Fatalf("unexpected lengths: %d, %d", len(a), len(b))
	}
	if string(a) == string(b) {
		t.Fatalf("two random arrays are identical, entropy source suspect")
	}
}

func TestWipeByteArray(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	WipeByteArray(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not wiped: %d", i, v)
		}
	}
	WipeByteArray(nil) // must not panic
}
