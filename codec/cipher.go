package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// EncryptAES256 encrypts plaintext under AES-256-CBC with a key derived
// as SHA-256(password), the construction in
// original_source/BaseLibrary/Crypto.cpp. The IV is generated randomly
// and prepended to the ciphertext. Output is suitable for storage as
// base64 via EncodeBase64.
func EncryptAES256(password string, plaintext []byte) ([]byte, error) {
	release := acquireProvider()
	defer release()

	key := sha256.Sum256([]byte(password))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, &ProviderError{Op: "aes-encrypt", Err: err}
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, &ProviderError{Op: "aes-encrypt", Err: err}
	}

	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(out[aes.BlockSize:], padded)
	return out, nil
}

// DecryptAES256 reverses EncryptAES256: ciphertext must be an IV
// followed by one or more AES blocks.
func DecryptAES256(password string, ciphertext []byte) ([]byte, error) {
	release := acquireProvider()
	defer release()

	if len(ciphertext) < aes.BlockSize || (len(ciphertext)-aes.BlockSize)%aes.BlockSize != 0 {
		return nil, &ProviderError{Op: "aes-decrypt", Err: fmt.Errorf("ciphertext is not a whole number of blocks")}
	}

	key := sha256.Sum256([]byte(password))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, &ProviderError{Op: "aes-decrypt", Err: err}
	}

	iv := ciphertext[:aes.BlockSize]
	body := ciphertext[aes.BlockSize:]
	out := make([]byte, len(body))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(out, body)

	return pkcs7Unpad(out)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	return out
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, &ProviderError{Op: "pkcs7-unpad", Err: fmt.Errorf("empty block")}
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) {
		return nil, &ProviderError{Op: "pkcs7-unpad", Err: fmt.Errorf("invalid padding")}
	}
	return data[:len(data)-padLen], nil
}

// FastCipher is the RC4-compatible stream cipher (original name CRC4)
// grounded on original_source/BaseLibrary/Base64.cpp's CRC4 class: a
// classic KSA + PRGA keyed directly by the raw password bytes. The
// same transform encrypts and decrypts, since it is a XOR keystream.
type FastCipher struct {
	sbox [256]byte
}

// NewFastCipher runs the key-scheduling algorithm over password and
// returns a ready-to-use cipher. An empty password is accepted and
// produces the identity permutation's keystream (i.e. it still mixes,
// since KSA never special-cases length zero beyond modulo arithmetic).
func NewFastCipher(password []byte) *FastCipher {
	release := acquireProvider()
	defer release()

	c := &FastCipher{}
	for i := 0; i < 256; i++ {
		c.sbox[i] = byte(i)
	}
	if len(password) == 0 {
		return c
	}
	j := 0
	for i := 0; i < 256; i++ {
		j = (j + int(c.sbox[i]) + int(password[i%len(password)])) & 0xff
		c.sbox[i], c.sbox[j] = c.sbox[j], c.sbox[i]
	}
	// Scrub the caller's key material now that the schedule is built;
	// unlike EncryptAES256's string password, a []byte is mutable in
	// place so this can actually zero the bytes the caller holds.
	for i := range password {
		password[i] = 0
	}
	return c
}

// Transform XORs data against the PRGA keystream and returns a new
// slice; it is its own inverse, so the same call encrypts or decrypts.
func (c *FastCipher) Transform(data []byte) []byte {
	release := acquireProvider()
	defer release()

	sbox := c.sbox
	out := make([]byte, len(data))
	i, j := 0, 0
	for k, b := range data {
		i = (i + 1) & 0xff
		j = (j + int(sbox[i])) & 0xff
		sbox[i], sbox[j] = sbox[j], sbox[i]
		keystream := sbox[(int(sbox[i])+int(sbox[j]))&0xff]
		out[k] = b ^ keystream
	}
	return out
}
