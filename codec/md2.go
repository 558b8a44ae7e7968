package codec

// Hand-rolled MD2 (RFC 1319), kept only for presentation compatibility
// with the original digest table. See md4.go for why this is
// hand-written rather than imported.

var md2SBox = [256]byte{
	41, 46, 67, 201, 162, 216, 124, 1, 61, 54, 84, 161, 236, 240, 6,
	19, 98, 167, 5, 243, 192, 199, 115, 140, 152, 147, 43, 217, 188,
	76, 130, 202, 30, 155, 87, 60, 253, 212, 224, 22, 103, 66, 111, 24,
	138, 23, 229, 18, 190, 78, 196, 214, 218, 158, 222, 73, 160, 251,
	245, 142, 187, 47, 238, 122, 169, 104, 121, 145, 21, 178, 7, 63,
	148, 194, 16, 137, 11, 34, 95, 33, 128, 127, 93, 154, 90, 144, 50,
	39, 53, 62, 204, 231, 191, 247, 151, 3, 255, 25, 48, 179, 72, 165,
	181, 209, 215, 94, 146, 42, 172, 86, 170, 198, 79, 184, 56, 210,
	150, 164, 125, 182, 118, 252, 107, 226, 156, 116, 4, 241, 69, 157,
	112, 89, 100, 113, 135, 32, 134, 91, 207, 101, 230, 45, 168, 2, 27,
	96, 37, 173, 174, 176, 185, 246, 28, 70, 97, 105, 52, 64, 126, 15,
	85, 71, 163, 35, 221, 81, 175, 58, 195, 92, 249, 206, 186, 197,
	234, 38, 44, 83, 13, 110, 133, 40, 132, 9, 211, 223, 205, 244, 65,
	129, 77, 82, 106, 220, 55, 200, 108, 193, 171, 250, 36, 225, 123,
	8, 12, 189, 177, 74, 120, 136, 149, 139, 227, 99, 232, 109, 233,
	203, 213, 254, 59, 0, 29, 57, 242, 239, 183, 14, 102, 88, 208, 228,
	166, 119, 114, 248, 235, 117, 75, 10, 49, 68, 80, 180, 143, 237,
	31, 26, 219, 153, 141, 51, 159, 17, 131, 20,
}

type md2Digest struct {
	state     [48]byte
	checksum  [16]byte
	buf       [16]byte
	n         int
	finalized bool
}

func newMD2() *md2Digest {
	return &md2Digest{}
}

func (d *md2Digest) Size() int      { return 16 }
func (d *md2Digest) BlockSize() int { return 16 }

func (d *md2Digest) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		n := copy(d.buf[d.n:], p)
		d.n += n
		p = p[n:]
		if d.n == 16 {
			d.processBlock()
			d.n = 0
		}
	}
	return total, nil
}

func (d *md2Digest) processBlock() {
	for j := 0; j < 16; j++ {
		d.state[16+j] = d.buf[j]
		d.state[32+j] = d.state[16+j] ^ d.state[j]
	}
	t := byte(0)
	for j := 0; j < 18; j++ {
		for k := 0; k < 48; k++ {
			d.state[k] ^= md2SBox[t]
			t = d.state[k]
		}
		t = t + byte(j)
	}

	l := d.checksum[15]
	for j := 0; j < 16; j++ {
		d.checksum[j] ^= md2SBox[d.buf[j]^l]
		l = d.checksum[j]
	}
}

func (d *md2Digest) Sum(in []byte) []byte {
	cp := *d
	pad := byte(16 - cp.n)
	var padding [16]byte
	for i := range padding {
		padding[i] = pad
	}
	cp.Write(padding[:pad])
	cp.Write(cp.checksum[:])
	return append(in, cp.state[:16]...)
}
