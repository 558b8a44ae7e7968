package codec

// Hand-rolled MD4 (RFC 1320). No pack example imports an MD4 package,
// so this is a from-scratch implementation kept legacy-compatible with
// the original crypto layer's digest set. Not used for anything
// security-sensitive in this module — only WS-Security uses SHA1, and
// MD4/MD2 are exposed solely as presentation compatibility for callers
// that need to reproduce the original digest table.

type md4Digest struct {
	s   [4]uint32
	buf [64]byte
	n   int
	len uint64
}

func newMD4() *md4Digest {
	d := &md4Digest{}
	d.reset()
	return d
}

func (d *md4Digest) reset() {
	d.s[0] = 0x67452301
	d.s[1] = 0xefcdab89
	d.s[2] = 0x98badcfe
	d.s[3] = 0x10325476
	d.n = 0
	d.len = 0
}

func (d *md4Digest) Size() int      { return 16 }
func (d *md4Digest) BlockSize() int { return 64 }

func (d *md4Digest) Write(p []byte) (int, error) {
	total := len(p)
	d.len += uint64(total)
	if d.n > 0 {
		n := copy(d.buf[d.n:], p)
		d.n += n
		p = p[n:]
		if d.n == 64 {
			md4Block(&d.s, d.buf[:])
			d.n = 0
		}
	}
	for len(p) >= 64 {
		md4Block(&d.s, p[:64])
		p = p[64:]
	}
	if len(p) > 0 {
		d.n = copy(d.buf[:], p)
	}
	return total, nil
}

func (d *md4Digest) Sum(in []byte) []byte {
	cp := *d
	cp.pad()
	out := make([]byte, 16)
	for i, v := range cp.s {
		out[i*4] = byte(v)
		out[i*4+1] = byte(v >> 8)
		out[i*4+2] = byte(v >> 16)
		out[i*4+3] = byte(v >> 24)
	}
	return append(in, out...)
}

func (d *md4Digest) pad() {
	bitLen := d.len * 8
	var tmp [64]byte
	tmp[0] = 0x80
	switch {
	case d.n < 56:
		d.Write(tmp[:56-d.n])
	default:
		d.Write(tmp[:64+56-d.n])
	}
	var lenBytes [8]byte
	for i := 0; i < 8; i++ {
		lenBytes[i] = byte(bitLen >> (8 * uint(i)))
	}
	d.Write(lenBytes[:])
}

func md4Block(s *[4]uint32, block []byte) {
	var x [16]uint32
	for i := 0; i < 16; i++ {
		x[i] = uint32(block[i*4]) | uint32(block[i*4+1])<<8 | uint32(block[i*4+2])<<16 | uint32(block[i*4+3])<<24
	}
	a, b, c, dd := s[0], s[1], s[2], s[3]

	rol := func(v uint32, n uint) uint32 { return v<<n | v>>(32-n) }

	ff := func(a, b, c, d, x uint32, s uint) uint32 {
		return rol(a+((b&c)|(^b&d))+x, s)
	}
	gg := func(a, b, c, d, x uint32, s uint) uint32 {
		return rol(a+((b&c)|(b&d)|(c&d))+x+0x5a827999, s)
	}
	hh := func(a, b, c, d, x uint32, s uint) uint32 {
		return rol(a+(b^c^d)+x+0x6ed9eba1, s)
	}

	a = ff(a, b, c, dd, x[0], 3)
	dd = ff(dd, a, b, c, x[1], 7)
	c = ff(c, dd, a, b, x[2], 11)
	b = ff(b, c, dd, a, x[3], 19)
	a = ff(a, b, c, dd, x[4], 3)
	dd = ff(dd, a, b, c, x[5], 7)
	c = ff(c, dd, a, b, x[6], 11)
	b = ff(b, c, dd, a, x[7], 19)
	a = ff(a, b, c, dd, x[8], 3)
	dd = ff(dd, a, b, c, x[9], 7)
	c = ff(c, dd, a, b, x[10], 11)
	b = ff(b, c, dd, a, x[11], 19)
	a = ff(a, b, c, dd, x[12], 3)
	dd = ff(dd, a, b, c, x[13], 7)
	c = ff(c, dd, a, b, x[14], 11)
	b = ff(b, c, dd, a, x[15], 19)

	gOrder := [16]int{0, 4, 8, 12, 1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15}
	gShift := [4]uint{3, 5, 9, 13}
	for i := 0; i < 16; i += 4 {
		a = gg(a, b, c, dd, x[gOrder[i]], gShift[0])
		dd = gg(dd, a, b, c, x[gOrder[i+1]], gShift[1])
		c = gg(c, dd, a, b, x[gOrder[i+2]], gShift[2])
		b = gg(b, c, dd, a, x[gOrder[i+3]], gShift[3])
	}

	hOrder := [16]int{0, 8, 4, 12, 2, 10, 6, 14, 1, 9, 5, 13, 3, 11, 7, 15}
	hShift := [4]uint{3, 9, 11, 15}
	for i := 0; i < 16; i += 4 {
		a = hh(a, b, c, dd, x[hOrder[i]], hShift[0])
		dd = hh(dd, a, b, c, x[hOrder[i+1]], hShift[1])
		c = hh(c, dd, a, b, x[hOrder[i+2]], hShift[2])
		b = hh(b, c, dd, a, x[hOrder[i+3]], hShift[3])
	}

	s[0] += a
	s[1] += b
	s[2] += c
	s[3] += dd
}
