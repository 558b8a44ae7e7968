package msgstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsforge/fabric/httpmsg"
	"github.com/wsforge/fabric/urlcrack"
)

func TestStoreIncomingMessageRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "capture.msg")

	msg := httpmsg.NewMessage()
	msg.Verb = httpmsg.VerbGET
	msg.URL = urlcrack.CrackURL("http://h/x")
	msg.Status = 200
	msg.ContentType = "text/plain"
	msg.Body = []byte("hello")
	msg.Headers.AddHeader("Accept", "*/*")

	s := NewStore(file)
	require.True(t, s.StoreIncomingMessage(msg))

	s2 := NewStore(file)
	got := s2.ReadIncomingMessage()
	require.NotNil(t, got)
	assert.Equal(t, httpmsg.VerbGET, got.Verb)
	assert.Equal(t, "http://h/x", got.URL.SafeURL())
	assert.Equal(t, 200, got.Status)
	assert.Equal(t, "text/plain", got.ContentType)
	assert.Equal(t, []byte("hello"), got.Body)
	v, ok := got.Headers.Get("Accept")
	require.True(t, ok)
	assert.Equal(t, "*/*", v)
}

func TestStoreIncomingMessageFileLayout(t *testing.T) {
	file := filepath.Join(t.TempDir(), "capture.msg")

	msg := httpmsg.NewMessage()
	msg.Verb = httpmsg.VerbGET
	msg.URL = urlcrack.CrackURL("http://h/x")
	msg.Status = 200
	msg.Body = []byte("hello")

	s := NewStore(file)
	require.True(t, s.StoreIncomingMessage(msg))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 8)
	assert.Equal(t, byte(ftVersion), data[0])
	assert.Equal(t, byte(0x01), data[1])
	assert.Equal(t, byte(0x01), data[2])
	assert.Equal(t, byte(ftResponseOffset), data[3])
	// end of file must be the two-byte 0xFFFF end marker
	assert.Equal(t, byte(0xFF), data[len(data)-1])
	assert.Equal(t, byte(0xFF), data[len(data)-2])
	assert.Equal(t, byte(ftEndMarker), data[len(data)-3])
}

func TestStoreResponseMessageSeeksPastIncoming(t *testing.T) {
	file := filepath.Join(t.TempDir(), "capture.msg")

	incoming := httpmsg.NewMessage()
	incoming.Verb = httpmsg.VerbPOST
	incoming.URL = urlcrack.CrackURL("http://h/submit")
	incoming.Body = []byte("request-body")

	response := httpmsg.NewMessage()
	response.Verb = httpmsg.VerbResponse
	response.Status = 201
	response.Body = []byte("response-body")

	s := NewStore(file)
	require.True(t, s.StoreIncomingMessage(incoming))
	require.True(t, s.StoreResponseMessage(response))

	s2 := NewStore(file)
	gotIn := s2.ReadIncomingMessage()
	require.NotNil(t, gotIn)
	assert.Equal(t, []byte("request-body"), gotIn.Body)

	s3 := NewStore(file)
	gotResp := s3.ReadResponseMessage()
	require.NotNil(t, gotResp)
	assert.Equal(t, 201, gotResp.Status)
	assert.Equal(t, []byte("response-body"), gotResp.Body)
}

func TestReadResponseMessageWithoutResponseFails(t *testing.T) {
	file := filepath.Join(t.TempDir(), "capture.msg")

	msg := httpmsg.NewMessage()
	msg.Verb = httpmsg.VerbGET
	msg.URL = urlcrack.CrackURL("http://h/x")

	s := NewStore(file)
	require.True(t, s.StoreIncomingMessage(msg))

	s2 := NewStore(file)
	got := s2.ReadResponseMessage()
	assert.Nil(t, got)
	assert.Equal(t, ErrNoResponse, s2.LastError())
}
