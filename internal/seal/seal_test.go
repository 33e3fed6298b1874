package seal

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return key
}

// TestRoundTrip tests that decryption recovers the exact plaintext.
func TestRoundTrip(t *testing.T) {
	key := testKey(t)

	plaintexts := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte(`{"entries":[{"id":"1","text":"hello","pinned":false}]}`),
		bytes.Repeat([]byte{0x00, 0xff}, 4096),
	}

	for _, plaintext := range plaintexts {
		sealed, err := Encrypt(plaintext, key)
		if err != nil {
			t.Fatalf("Encrypt() error: %v", err)
		}

		got, err := Decrypt(sealed, key)
		if err != nil {
			t.Fatalf("Decrypt() error: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(plaintext))
		}
	}
}

// TestNonceFreshness tests that sealing the same plaintext twice yields
// different output.
func TestNonceFreshness(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("same input")

	a, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	b, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	if bytes.Equal(a, b) {
		t.Error("two encryptions produced identical output, nonce not fresh")
	}
}

// TestTamperDetection tests that flipping any single byte of the sealed
// output fails authentication.
func TestTamperDetection(t *testing.T) {
	key := testKey(t)
	sealed, err := Encrypt([]byte("clipboard history snapshot"), key)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	for i := range sealed {
		tampered := make([]byte, len(sealed))
		copy(tampered, sealed)
		tampered[i] ^= 0x01

		if _, err := Decrypt(tampered, key); !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("byte %d flip: error = %v, want ErrAuthenticationFailed", i, err)
		}
	}
}

// TestTruncation tests that truncated ciphertexts fail authentication
// rather than decoding partially.
func TestTruncation(t *testing.T) {
	key := testKey(t)
	sealed, err := Encrypt([]byte("clipboard history snapshot"), key)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	for _, n := range []int{0, 1, 23, 24, len(sealed) - 1} {
		if _, err := Decrypt(sealed[:n], key); !errors.Is(err, ErrAuthenticationFailed) {
			t.Errorf("truncation to %d bytes: error = %v, want ErrAuthenticationFailed", n, err)
		}
	}
}

// TestWrongKey tests that decrypting under a different key fails
// authentication.
func TestWrongKey(t *testing.T) {
	sealed, err := Encrypt([]byte("secret"), testKey(t))
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	if _, err := Decrypt(sealed, testKey(t)); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("wrong key: error = %v, want ErrAuthenticationFailed", err)
	}
}

// TestBadKeySize tests that malformed keys are rejected outright.
func TestBadKeySize(t *testing.T) {
	if _, err := Encrypt([]byte("x"), make([]byte, 16)); err == nil {
		t.Error("Encrypt() accepted a 16-byte key")
	}
	if _, err := Decrypt(make([]byte, 64), make([]byte, 16)); err == nil {
		t.Error("Decrypt() accepted a 16-byte key")
	}
}
