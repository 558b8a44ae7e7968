// Package httpmsg is the fabric's in-memory HTTP message model: verb,
// status, cracked URL, the fixed-ordinal header/verb tables, cookies,
// routing, and VERB-tunneling translation in both directions.
package httpmsg

// Verb is the fixed-ordinal HTTP method enum; ordinals are part of the
// MessageStore wire format and must never be renumbered.
type Verb int

const (
	VerbResponse Verb = iota
	VerbPOST
	VerbGET
	VerbPUT
	VerbDELETE
	VerbHEAD
	VerbTRACE
	VerbCONNECT
	VerbOPTIONS
	VerbMOVE
	VerbCOPY
	VerbPROPFIND
	VerbPROPPATCH
	VerbMKCOL
	VerbLOCK
	VerbUNLOCK
	VerbSEARCH
	VerbMERGE
	VerbPATCH
	VerbVERSIONCONTROL
	VerbREPORT
	VerbCHECKOUT
	VerbCHECKIN
	VerbUNCHECKOUT
	VerbMKWORKSPACE
	VerbUPDATE
	VerbLABEL
	VerbBASELINECONTROL
	VerbMKACTIVITY
	VerbORDERPATCH
	VerbACL
)

var verbNames = [...]string{
	"", "POST", "GET", "PUT", "DELETE", "HEAD", "TRACE", "CONNECT", "OPTIONS",
	"MOVE", "COPY", "PROPFIND", "PROPPATCH", "MKCOL", "LOCK", "UNLOCK",
	"SEARCH", "MERGE", "PATCH", "VERSION-CONTROL", "REPORT", "CHECKOUT",
	"CHECKIN", "UNCHECKOUT", "MKWORKSPACE", "UPDATE", "LABEL",
	"BASELINE-CONTROL", "MKACTIVITY", "ORDERPATCH", "ACL",
}

func (v Verb) String() string {
	if int(v) < 0 || int(v) >= len(verbNames) {
		return ""
	}
	return verbNames[v]
}

// ParseVerb resolves a wire verb name to its Verb ordinal.
func ParseVerb(name string) (Verb, bool) {
	for i, n := range verbNames {
		if n == name {
			return Verb(i), true
		}
	}
	return VerbResponse, false
}
