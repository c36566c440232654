package codec

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"io"
)

// Classic PKWARE ZipCrypto, the stream cipher "legacy encryption" zip
// entries scenario 7/8 (spec.md §8) need. archive/zip has no decryption
// support at all (it isn't a format feature the stdlib implements), so this
// is hand-rolled directly from the public APPNOTE.TXT algorithm description;
// no pack example library implements it either (justified stdlib-adjacent
// build in DESIGN.md).
type zipCryptoKeys struct {
	key0, key1, key2 uint32
}

var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var t [256]uint32
	for i := 0; i < 256; i++ {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = 0xEDB88320 ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

func crc32Update(crc uint32, b byte) uint32 {
	return crcTable[byte(crc)^b] ^ (crc >> 8)
}

func newZipCryptoKeys(password string) *zipCryptoKeys {
	k := &zipCryptoKeys{key0: 305419896, key1: 591751049, key2: 878082192}
	for i := 0; i < len(password); i++ {
		k.update(password[i])
	}
	return k
}

func (k *zipCryptoKeys) update(c byte) {
	k.key0 = crc32Update(k.key0, c)
	k.key1 = k.key1 + (k.key0 & 0xff)
	k.key1 = k.key1*134775813 + 1
	k.key2 = crc32Update(k.key2, byte(k.key1>>24))
}

func (k *zipCryptoKeys) decryptByte() byte {
	temp := uint16(k.key2) | 2
	return byte((uint32(temp) * (uint32(temp) ^ 1)) >> 8)
}

func (k *zipCryptoKeys) decrypt(c byte) byte {
	p := c ^ k.decryptByte()
	k.update(p)
	return p
}

// zipCryptoReader decrypts a PKWARE traditional-encryption byte stream
// on the fly as the caller reads it.
type zipCryptoReader struct {
	src  io.Reader
	keys *zipCryptoKeys
}

func (r *zipCryptoReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	for i := 0; i < n; i++ {
		p[i] = r.keys.decrypt(p[i])
	}
	return n, err
}

var errIncorrectPassphrase = errors.New("zipcrypto: incorrect passphrase")

// openZipCryptoEntry opens f for reading, decrypting its classic ZipCrypto
// header and body with password, and decompressing the result if needed.
func openZipCryptoEntry(f *zip.File, password string) (io.ReadCloser, error) {
	raw, err := f.OpenRaw()
	if err != nil {
		return nil, err
	}

	keys := newZipCryptoKeys(password)
	header := make([]byte, 12)
	if _, err := io.ReadFull(raw, header); err != nil {
		return nil, err
	}
	var check byte
	for i, b := range header {
		check = keys.decrypt(b)
		_ = i
	}
	// last decrypted header byte should equal the high byte of the CRC
	// (or of the last-mod-time, when bit 3 of the general-purpose flag is
	// set); treat a mismatch as an incorrect passphrase.
	want := byte(f.CRC32 >> 24)
	if f.Flags&0x8 != 0 {
		want = byte(f.ModifiedTime >> 8)
	}
	if check != want {
		return nil, errIncorrectPassphrase
	}

	body := &zipCryptoReader{src: raw, keys: keys}

	var decompressed io.Reader
	switch f.Method {
	case zip.Store:
		decompressed = body
	case zip.Deflate:
		fr := flate.NewReader(body)
		return fr, nil
	default:
		return nil, errors.New("zipcrypto: unsupported compression method")
	}

	return io.NopCloser(decompressed), nil
}
