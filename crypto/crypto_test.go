package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"testing"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := NewAESEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("new encryptor: %v", err)
	}

	plaintext := []byte("oauth:supersecrettoken")
	ct, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(ct, plaintext) {
		t.Error("ciphertext contains plaintext")
	}

	got, err := enc.Decrypt(ct)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("round trip = %q, want %q", got, plaintext)
	}
}

func TestEncryptNonceUnique(t *testing.T) {
	enc, err := NewAESEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("new encryptor: %v", err)
	}
	a, _ := enc.Encrypt([]byte("same input"))
	b, _ := enc.Encrypt([]byte("same input"))
	if bytes.Equal(a, b) {
		t.Error("two encryptions of the same input should differ")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	enc, err := NewAESEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("new encryptor: %v", err)
	}
	ct, err := enc.Encrypt([]byte("token"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	ct[len(ct)-1] ^= 0xff
	if _, err := enc.Decrypt(ct); err == nil {
		t.Error("tampered ciphertext must fail to decrypt")
	}
}

func TestDecryptRejectsTruncated(t *testing.T) {
	enc, err := NewAESEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("new encryptor: %v", err)
	}
	if _, err := enc.Decrypt([]byte("short")); err == nil {
		t.Error("truncated ciphertext must fail")
	}
}

func TestNewAESEncryptorRejectsBadKeys(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"not base64":  "!!!not-base64!!!",
		"wrong size":  base64.StdEncoding.EncodeToString([]byte("tooshort")),
	}
	for name, key := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewAESEncryptor(key); err == nil {
				t.Errorf("key %q should be rejected", key)
			}
		})
	}
}

func TestStringHelpers(t *testing.T) {
	enc, err := NewAESEncryptor(testKey(t))
	if err != nil {
		t.Fatalf("new encryptor: %v", err)
	}

	ct, err := EncryptString(enc, "refresh-token-value")
	if err != nil {
		t.Fatalf("encrypt string: %v", err)
	}
	if _, err := base64.StdEncoding.DecodeString(ct); err != nil {
		t.Errorf("EncryptString output is not base64: %v", err)
	}
	got, err := DecryptString(enc, ct)
	if err != nil {
		t.Fatalf("decrypt string: %v", err)
	}
	if got != "refresh-token-value" {
		t.Errorf("round trip = %q", got)
	}

	// Empty strings pass through both directions.
	if out, err := EncryptString(enc, ""); err != nil || out != "" {
		t.Errorf("EncryptString(\"\") = %q, %v", out, err)
	}
	if out, err := DecryptString(enc, ""); err != nil || out != "" {
		t.Errorf("DecryptString(\"\") = %q, %v", out, err)
	}
}
