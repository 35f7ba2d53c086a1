package secrets

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"
)

func TestKeyFromSecret(t *testing.T) {
	raw := bytes.Repeat([]byte{7}, keySize)

	cases := []struct {
		name   string
		secret string
		want   []byte
	}{
		{"base64", base64.StdEncoding.EncodeToString(raw), raw},
		{"hex", hex.EncodeToString(raw), raw},
		{"padded base64", "  " + base64.StdEncoding.EncodeToString(raw) + "\n", raw},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := KeyFromSecret(tc.secret)
			if err != nil || !bytes.Equal(got, tc.want) {
				t.Fatalf("got %x err=%v", got, err)
			}
		})
	}

	a, err := KeyFromSecret("correct horse battery staple")
	if err != nil || len(a) != keySize {
		t.Fatalf("derived key: len=%d err=%v", len(a), err)
	}
	b, _ := KeyFromSecret("correct horse battery staple")
	c, _ := KeyFromSecret("correct horse battery staplf")
	if !bytes.Equal(a, b) || bytes.Equal(a, c) {
		t.Fatalf("derivation must be deterministic and secret dependent")
	}

	if _, err := KeyFromSecret("   "); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestNewWithKey_RejectsWrongSize(t *testing.T) {
	if _, err := NewWithKey(make([]byte, 16)); err == nil {
		t.Fatalf("expected error for 16-byte key")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c, err := New("sparky-test-secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ct1, iv1, err := c.Encrypt("sk-live-abc")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	ct2, iv2, _ := c.Encrypt("sk-live-abc")
	if iv1 == iv2 || ct1 == ct2 {
		t.Fatalf("each write must use a fresh iv")
	}
	nonce, _ := base64.StdEncoding.DecodeString(iv1)
	if len(nonce) != nonceSize {
		t.Fatalf("iv length %d", len(nonce))
	}

	plain, err := c.Decrypt(ct1, iv1)
	if err != nil || plain != "sk-live-abc" {
		t.Fatalf("Decrypt = %q, %v", plain, err)
	}
}

func TestDecrypt_Failures(t *testing.T) {
	c, _ := New("sparky-test-secret")
	other, _ := New("another-secret")
	ct, iv, _ := c.Encrypt("sk-live-abc")

	cases := []struct {
		name   string
		cipher *Cipher
		ct, iv string
	}{
		{"missing", c, "", iv},
		{"bad base64", c, "%%%", iv},
		{"bad iv base64", c, ct, "%%%"},
		{"short iv", c, ct, base64.StdEncoding.EncodeToString([]byte("short"))},
		{"wrong key", other, ct, iv},
		{"tampered", c, base64.StdEncoding.EncodeToString([]byte("not the sealed bytes")), iv},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cipher.Decrypt(tc.ct, tc.iv)
			var de *DecryptionError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecryptionError, got %v", err)
			}
			if de.Error() == "" {
				t.Fatalf("empty message")
			}
		})
	}
}
