package soapmsg

import "github.com/wsforge/fabric/httpmsg"

// ApplyVerbTunneling reuses httpmsg's VERB tunneling translation for
// the transport message carrying this SOAP body, rather than
// reimplementing the precedence rules at the SOAP layer.
func ApplyVerbTunneling(req *httpmsg.Message) {
	req.FindVerbTunneling()
}

// UseVerbTunneling rewrites req to POST if needed before dispatching a
// SOAP call over a transport that restricts verbs.
func UseVerbTunneling(req *httpmsg.Message) {
	req.UseVerbTunneling()
}
