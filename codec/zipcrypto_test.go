package codec

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

// encryptStream is a test-only mirror of zipCryptoReader.Read, run in the
// opposite direction: it needs the plaintext (not yet known to a real
// decryptor) to advance the keystream, which is exactly what a real
// ZipCrypto encoder does and what this module's writer side doesn't
// implement. It exists only to build fixtures for the tests below.
func encryptStream(password string, crc32Value uint32, plain []byte) []byte {
	keys := newZipCryptoKeys(password)
	out := make([]byte, 0, 12+len(plain))

	header := make([]byte, 12)
	for i := 0; i < 11; i++ {
		header[i] = byte(i * 7)
	}
	header[11] = byte(crc32Value >> 24)

	for _, b := range header {
		c := b ^ keys.decryptByte()
		keys.update(b)
		out = append(out, c)
	}
	for _, b := range plain {
		c := b ^ keys.decryptByte()
		keys.update(b)
		out = append(out, c)
	}
	return out
}

func TestZipCryptoRoundTrip(t *testing.T) {
	plain := []byte("hello zipcrypto world")
	crc := crc32.ChecksumIEEE(plain)
	password := "s3cr3t"

	cipherStream := encryptStream(password, crc, plain)

	keys := newZipCryptoKeys(password)
	var check byte
	for _, b := range cipherStream[:12] {
		check = keys.decrypt(b)
	}
	require.Equal(t, byte(crc>>24), check)

	body := make([]byte, len(plain))
	for i, b := range cipherStream[12:] {
		body[i] = keys.decrypt(b)
	}
	require.Equal(t, plain, body)
}

func TestZipCryptoWrongPassphraseFailsCheck(t *testing.T) {
	plain := []byte("top secret contents")
	crc := crc32.ChecksumIEEE(plain)
	cipherStream := encryptStream("correct-password", crc, plain)

	keys := newZipCryptoKeys("wrong-password")
	var check byte
	for _, b := range cipherStream[:12] {
		check = keys.decrypt(b)
	}
	require.NotEqual(t, byte(crc>>24), check)
}
