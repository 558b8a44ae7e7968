package msgstore

import (
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/wsforge/fabric/httpmsg"
	"github.com/wsforge/fabric/obslog"
	"github.com/wsforge/fabric/urlcrack"
	"github.com/wsforge/fabric/webcookie"
)

// Store reads and writes one capture file: an incoming HTTPMessage
// followed, at a recorded offset, by its response HTTPMessage. Like
// every other fabric type it is single-owner, single-thread (§5): a
// Store instance must not be shared across goroutines without external
// serialization.
type Store struct {
	Filename string

	err Error
}

// NewStore returns a Store bound to filename; no file I/O happens
// until one of the Store/Read methods is called.
func NewStore(filename string) *Store {
	return &Store{Filename: filename}
}

// LastError returns the most recent I/O or framing error, or nil.
func (s *Store) LastError() error {
	if s.err == 0 {
		return nil
	}
	return s.err
}

// StoreIncomingMessage truncates the file and writes msg as the
// incoming part, reserving (then rewriting) the response offset field.
func (s *Store) StoreIncomingMessage(msg *httpmsg.Message) bool {
	f, err := os.OpenFile(s.Filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		obslog.For("msgstore").Warn().Str("file", s.Filename).Err(err).Msg("open for write failed")
		return false
	}
	defer f.Close()

	w := &writer{f: f}
	w.writeVersion()
	w.writeResponseOffset(0)
	w.writeMessagePart(msg)
	if w.err != nil {
		s.err = ErrBody
		return false
	}

	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		s.err = ErrNoFile
		return false
	}
	if _, err := f.Seek(responseOffset, io.SeekStart); err != nil {
		s.err = ErrResponseOffset
		return false
	}
	w2 := &writer{f: f}
	w2.writeResponseOffset(uint32(pos))
	if w2.err != nil {
		s.err = ErrResponseOffset
		return false
	}
	return true
}

// StoreResponseMessage opens the existing file, skips past the
// incoming part using the recorded offset, and appends msg as the
// response part at EOF.
func (s *Store) StoreResponseMessage(msg *httpmsg.Message) bool {
	f, err := os.OpenFile(s.Filename, os.O_RDWR, 0o644)
	if err != nil {
		obslog.For("msgstore").Warn().Str("file", s.Filename).Err(err).Msg("open for append failed")
		return false
	}
	defer f.Close()

	r := &reader{f: f}
	r.readVersion()
	if r.err != nil {
		s.err = r.err
		return false
	}
	off := r.readResponseOffset()
	if r.err != nil {
		s.err = r.err
		return false
	}
	if _, err := f.Seek(int64(off), io.SeekStart); err != nil {
		s.err = ErrResponse
		return false
	}

	w := &writer{f: f}
	w.writeMessagePart(msg)
	if w.err != nil {
		s.err = ErrBody
		return false
	}
	return true
}

// ReadIncomingMessage reads the version, skips the response-offset
// field, and reconstructs the incoming HTTPMessage.
func (s *Store) ReadIncomingMessage() *httpmsg.Message {
	f, err := os.Open(s.Filename)
	if err != nil {
		obslog.For("msgstore").Warn().Str("file", s.Filename).Err(err).Msg("open for read failed")
		return nil
	}
	defer f.Close()

	r := &reader{f: f}
	r.readVersion()
	r.readResponseOffset()
	msg := httpmsg.NewMessage()
	r.readMessagePart(msg)
	if r.err != nil {
		s.err = r.err
		return nil
	}
	return msg
}

// ReadResponseMessage reads the version, seeks to the recorded
// response offset (verifying it lies within the file), and
// reconstructs the response HTTPMessage.
func (s *Store) ReadResponseMessage() *httpmsg.Message {
	f, err := os.Open(s.Filename)
	if err != nil {
		obslog.For("msgstore").Warn().Str("file", s.Filename).Err(err).Msg("open for read failed")
		return nil
	}
	defer f.Close()

	r := &reader{f: f}
	r.readVersion()
	off := r.readResponseOffset()
	if r.err != nil {
		s.err = r.err
		return nil
	}
	info, err := f.Stat()
	if err != nil {
		s.err = ErrNoFile
		return nil
	}
	if int64(off) >= info.Size() {
		s.err = ErrNoResponse
		return nil
	}
	if _, err := f.Seek(int64(off), io.SeekStart); err != nil {
		s.err = ErrResponse
		return nil
	}

	msg := httpmsg.NewMessage()
	r.readMessagePart(msg)
	if r.err != nil {
		s.err = r.err
		return nil
	}
	return msg
}

// writer is the private primitive layer used by both Store methods.
type writer struct {
	f   *os.File
	err error
}

func (w *writer) writeTag(t fieldTag) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.Write([]byte{byte(t)})
}

func (w *writer) writeU8(v uint8) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.Write([]byte{v})
}

func (w *writer) writeU16(v uint16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, w.err = w.f.Write(buf[:])
}

func (w *writer) writeU32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, w.err = w.f.Write(buf[:])
}

func (w *writer) writeU64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, w.err = w.f.Write(buf[:])
}

func (w *writer) writeString(s string) {
	if w.err != nil {
		return
	}
	w.writeU32(uint32(len(s)))
	if len(s) > 0 {
		_, w.err = w.f.Write([]byte(s))
	}
}

func (w *writer) writeVersion() {
	w.writeTag(ftVersion)
	w.writeU16(fileVersion)
}

func (w *writer) writeResponseOffset(off uint32) {
	w.writeTag(ftResponseOffset)
	w.writeU32(off)
}

func (w *writer) writeMessagePart(msg *httpmsg.Message) {
	w.writeTag(ftHTTPCommand)
	w.writeU16(uint16(msg.Verb))

	w.writeTag(ftURL)
	if msg.URL != nil {
		w.writeString(msg.URL.SafeURL())
	} else {
		w.writeString("")
	}

	w.writeTag(ftHTTPStatus)
	w.writeU16(uint16(msg.Status))

	w.writeTag(ftContentType)
	w.writeString(msg.ContentType)

	w.writeTag(ftContentLength)
	w.writeU64(uint64(msg.ContentLength()))

	w.writeTag(ftAcceptEncoding)
	w.writeString(msg.AcceptEncoding)

	w.writeTag(ftVerbTunnel)
	w.writeU8(boolByte(msg.VerbTunnel))

	w.writeTag(ftSendBOM)
	w.writeU8(boolByte(msg.SendBOM))

	w.writeTag(ftCookies)
	cookies := msg.Cookies.All()
	w.writeU16(uint16(len(cookies)))
	for _, c := range cookies {
		w.writeString(c.ServerString())
	}

	w.writeTag(ftReferrer)
	w.writeString(msg.Referrer)

	w.writeTag(ftDesktop)
	w.writeU32(msg.Desktop)

	w.writeTag(ftHeaders)
	names := msg.Headers.Names()
	var pairs [][2]string
	for _, name := range names {
		for _, v := range msg.Headers.Values(name) {
			pairs = append(pairs, [2]string{name, v})
		}
	}
	w.writeU16(uint16(len(pairs)))
	for _, p := range pairs {
		w.writeString(p[0])
		w.writeString(p[1])
	}

	w.writeTag(ftRouting)
	w.writeU16(uint16(len(msg.Routing)))
	for _, r := range msg.Routing {
		w.writeString(r)
	}

	w.writeTag(ftIsModified)
	w.writeU8(boolByte(msg.UseIfModifiedSince))

	w.writeTag(ftSystemTime)
	writeSystemTime(w, msg.IfModifiedSince)

	w.writeTag(ftBody)
	w.writeU64(uint64(len(msg.Body)))
	if len(msg.Body) > 0 && w.err == nil {
		_, w.err = w.f.Write(msg.Body)
	}

	w.writeTag(ftEndMarker)
	w.writeU16(endMarkerValue)
}

func writeSystemTime(w *writer, t time.Time) {
	t = t.UTC()
	year, month, day := t.Date()
	w.writeU16(uint16(year))
	w.writeU16(uint16(month))
	w.writeU16(uint16(t.Weekday()))
	w.writeU16(uint16(day))
	w.writeU16(uint16(t.Hour()))
	w.writeU16(uint16(t.Minute()))
	w.writeU16(uint16(t.Second()))
	w.writeU16(uint16(t.Nanosecond() / int(time.Millisecond)))
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// reader is the inverse primitive layer.
type reader struct {
	f   *os.File
	err error
}

func (r *reader) readTag() fieldTag {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	if _, err := io.ReadFull(r.f, buf[:]); err != nil {
		r.err = err
		return 0
	}
	return fieldTag(buf[0])
}

func (r *reader) readU8() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	if _, err := io.ReadFull(r.f, buf[:]); err != nil {
		r.err = err
		return 0
	}
	return buf[0]
}

func (r *reader) readU16() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	if _, err := io.ReadFull(r.f, buf[:]); err != nil {
		r.err = err
		return 0
	}
	return binary.LittleEndian.Uint16(buf[:])
}

func (r *reader) readU32() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	if _, err := io.ReadFull(r.f, buf[:]); err != nil {
		r.err = err
		return 0
	}
	return binary.LittleEndian.Uint32(buf[:])
}

func (r *reader) readU64() uint64 {
	if r.err != nil {
		return 0
	}
	var buf [8]byte
	if _, err := io.ReadFull(r.f, buf[:]); err != nil {
		r.err = err
		return 0
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func (r *reader) readString() string {
	if r.err != nil {
		return ""
	}
	n := r.readU32()
	if r.err != nil || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.f, buf); err != nil {
		r.err = err
		return ""
	}
	return string(buf)
}

func (r *reader) readVersion() int {
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	if tag != ftVersion {
		r.err = ErrVersion
		return 0
	}
	v := r.readU16()
	if r.err != nil {
		return 0
	}
	if v != fileVersion {
		r.err = ErrWrongVersion
		return 0
	}
	return int(v)
}

func (r *reader) readResponseOffset() uint32 {
	tag := r.readTag()
	if r.err != nil {
		return 0
	}
	if tag != ftResponseOffset {
		r.err = ErrResponseOffset
		return 0
	}
	return r.readU32()
}

func (r *reader) readMessagePart(msg *httpmsg.Message) {
	for {
		tag := r.readTag()
		if r.err != nil {
			return
		}
		switch tag {
		case ftHTTPCommand:
			msg.Verb = httpmsg.Verb(r.readU16())
		case ftURL:
			s := r.readString()
			msg.URL = urlcrack.CrackURL(s)
		case ftHTTPStatus:
			msg.Status = int(r.readU16())
		case ftContentType:
			msg.ContentType = r.readString()
		case ftContentLength:
			r.readU64() // derived from Body on write; length itself is not stored separately
		case ftAcceptEncoding:
			msg.AcceptEncoding = r.readString()
		case ftVerbTunnel:
			msg.VerbTunnel = r.readU8() != 0
		case ftSendBOM:
			msg.SendBOM = r.readU8() != 0
		case ftCookies:
			n := r.readU16()
			for i := uint16(0); i < n && r.err == nil; i++ {
				msg.Cookies.Set(webcookie.ParseCookie(r.readString()))
			}
		case ftReferrer:
			msg.Referrer = r.readString()
		case ftDesktop:
			msg.Desktop = r.readU32()
		case ftHeaders:
			n := r.readU16()
			for i := uint16(0); i < n && r.err == nil; i++ {
				name := r.readString()
				value := r.readString()
				msg.Headers.AddHeaderValue(name, value)
			}
		case ftRouting:
			n := r.readU16()
			for i := uint16(0); i < n && r.err == nil; i++ {
				msg.Routing = append(msg.Routing, r.readString())
			}
		case ftIsModified:
			msg.UseIfModifiedSince = r.readU8() != 0
		case ftSystemTime:
			msg.IfModifiedSince = readSystemTime(r)
		case ftBody:
			n := r.readU64()
			if r.err != nil {
				return
			}
			if n > 0 {
				buf := make([]byte, n)
				if _, err := io.ReadFull(r.f, buf); err != nil {
					r.err = ErrBody
					return
				}
				msg.Body = buf
			}
		case ftEndMarker:
			v := r.readU16()
			if r.err == nil && v != endMarkerValue {
				r.err = ErrEndMarker
			}
			return
		default:
			r.err = ErrUnknownField
			return
		}
	}
}

func readSystemTime(r *reader) time.Time {
	year := int(r.readU16())
	month := int(r.readU16())
	r.readU16() // day-of-week, recomputed by time.Date, not round-tripped
	day := int(r.readU16())
	hour := int(r.readU16())
	minute := int(r.readU16())
	second := int(r.readU16())
	ms := int(r.readU16())
	if r.err != nil {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, ms*int(time.Millisecond), time.UTC)
}
