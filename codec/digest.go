package codec

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// DigestAlgorithm names a supported hash construction.
type DigestAlgorithm int

const (
	DigestMD2 DigestAlgorithm = iota
	DigestMD4
	DigestMD5
	DigestSHA1
	DigestSHA256
	DigestSHA384
	DigestSHA512
)

func newHash(alg DigestAlgorithm) (hash.Hash, error) {
	switch alg {
	case DigestMD2:
		return newMD2(), nil
	case DigestMD4:
		return newMD4(), nil
	case DigestMD5:
		return md5.New(), nil
	case DigestSHA1:
		return sha1.New(), nil
	case DigestSHA256:
		return sha256.New(), nil
	case DigestSHA384:
		return sha512.New384(), nil
	case DigestSHA512:
		return sha512.New(), nil
	default:
		return nil, &ProviderError{Op: "digest", Err: ErrUnsupportedAlgorithm}
	}
}

// Digest hashes data with alg and returns the raw digest bytes. It
// acquires the process-wide crypto provider lock for the duration of
// the call, matching the single-threaded-provider discipline the
// original crypto layer depends on.
func Digest(alg DigestAlgorithm, data []byte) ([]byte, error) {
	release := acquireProvider()
	defer release()

	h, err := newHash(alg)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}

// DigestHex hashes data and renders the digest as lowercase hex.
func DigestHex(alg DigestAlgorithm, data []byte) (string, error) {
	sum, err := Digest(alg, data)
	if err != nil {
		return "", err
	}
	return hexEncode(sum), nil
}

// DigestBase64 hashes data and renders the digest as base64, the
// presentation WS-Security UsernameToken digests use on the wire.
func DigestBase64(alg DigestAlgorithm, data []byte) (string, error) {
	sum, err := Digest(alg, data)
	if err != nil {
		return "", err
	}
	return EncodeBase64(sum), nil
}

const hexDigits = "0123456789abcdef"

func hexEncode(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0f]
	}
	return string(out)
}
