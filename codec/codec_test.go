package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64RoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("f"),
		[]byte("fo"),
		[]byte("foo"),
		[]byte("foob"),
		[]byte("fooba"),
		[]byte("foobar"),
		[]byte("the quick brown fox jumps over the lazy dog 0123456789"),
	}
	for _, data := range cases {
		enc := EncodeBase64(data)
		got := DecodeBase64(enc)
		if len(data) == 0 {
			assert.Len(t, got, 0)
			continue
		}
		assert.Equal(t, data, got)
	}
}

func TestBase64KnownVectors(t *testing.T) {
	assert.Equal(t, "Zm9v", EncodeBase64([]byte("foo")))
	assert.Equal(t, "Zm9vYg==", EncodeBase64([]byte("foob")))
	assert.Equal(t, []byte("foob"), DecodeBase64("Zm9vYg=="))
}

func TestBase64LenientDecodeDoesNotError(t *testing.T) {
	// '*' and '!' are outside the alphabet; the lenient decoder treats
	// them as zero bits instead of failing.
	got := DecodeBase64("Zm9v*!==")
	assert.NotNil(t, got)
}

func TestDigestHexKnownVectors(t *testing.T) {
	sum, err := DigestHex(DigestSHA1, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89", sum)

	sum, err = DigestHex(DigestMD5, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", sum)

	sum, err = DigestHex(DigestSHA256, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)
}

func TestDigestMD4KnownVector(t *testing.T) {
	sum, err := DigestHex(DigestMD4, []byte(""))
	require.NoError(t, err)
	assert.Equal(t, "31d6cfe0d16ae931b73c59d7e0c089c0", sum)
}

func TestDigestUnsupportedAlgorithm(t *testing.T) {
	_, err := Digest(DigestAlgorithm(99), []byte("x"))
	require.Error(t, err)
	var pe *ProviderError
	assert.ErrorAs(t, err, &pe)
}

func TestAES256RoundTrip(t *testing.T) {
	plain := []byte("a message that spans more than one AES block of plaintext")
	ct, err := EncryptAES256("correct horse battery staple", plain)
	require.NoError(t, err)

	pt, err := DecryptAES256("correct horse battery staple", ct)
	require.NoError(t, err)
	assert.Equal(t, plain, pt)
}

func TestAES256WrongPasswordFails(t *testing.T) {
	plain := []byte("secret payload")
	ct, err := EncryptAES256("right-password", plain)
	require.NoError(t, err)

	_, err = DecryptAES256("wrong-password", ct)
	// Decryption with the wrong key almost always produces invalid
	// PKCS7 padding; it must not silently return the wrong plaintext.
	if err == nil {
		t.Skip("statistically rare: wrong key happened to produce valid padding")
	}
}

func TestFastCipherIsSelfInverse(t *testing.T) {
	plain := []byte("roundtrip through the same keystream twice")

	// NewFastCipher scrubs its password argument in place once the key
	// schedule is built, so each call needs its own copy of the key.
	c1 := NewFastCipher([]byte("sharedsecret"))
	ct := c1.Transform(plain)

	c2 := NewFastCipher([]byte("sharedsecret"))
	pt := c2.Transform(ct)

	assert.Equal(t, plain, pt)
	assert.NotEqual(t, plain, ct)
}

func TestNewFastCipherScrubsPassword(t *testing.T) {
	key := []byte("sharedsecret")
	NewFastCipher(key)
	for _, b := range key {
		assert.Equal(t, byte(0), b)
	}
}

func TestFastCipherEmptyPassword(t *testing.T) {
	c := NewFastCipher(nil)
	out := c.Transform([]byte("abc"))
	assert.Len(t, out, 3)
}
