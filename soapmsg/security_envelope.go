package soapmsg

import (
	"github.com/wsforge/fabric/codec"
	"github.com/wsforge/fabric/xmlmodel"
)

const signingTokenMarker = "TOKEN"

// SignBody computes the canonical form of the current Body, digests
// it under Security.SigningMethod, and wraps the digest in a
// wsse:Security/ds:Signature header carrying a CustomToken built from
// the shared secret (reverse(password)+TOKEN+password, base64), per
// spec §4.7 step 5. Re-signing a body whose Signature already carries
// a non-empty SignatureValue is a no-op (idempotent).
func (m *Message) SignBody(password string) error {
	if m.Body == nil {
		return &UsageError{Reason: "SignBody requires a Body"}
	}
	header := m.ensureHeader()
	m.ensureEnvelopeNamespace("wsse", NSWSSecurity)
	m.ensureEnvelopeNamespace("ds", NSDSig)

	sec := header.FindFirst("Security")
	if sec == nil {
		sec = newSoapElement("wsse", "Security")
		header.Children = append([]*xmlmodel.Element{sec}, header.Children...)
		sec.Parent = header
	}
	if existing := sec.FindFirst("Signature"); existing != nil {
		if v := existing.FindFirst("SignatureValue"); v != nil && v.Value != "" {
			return nil
		}
	}

	alg := m.Security.SigningMethod
	if alg == "" {
		alg = "sha256"
	}
	canon := xmlmodel.Canonicalize(m.Body)
	algID, err := digestAlgorithmFor(alg)
	if err != nil {
		return err
	}
	digest, err := codec.Digest(algID, canon)
	if err != nil {
		return err
	}

	reversed := reverseString(password)
	token := codec.EncodeBase64([]byte(reversed + signingTokenMarker + password))

	sig := newSoapElement("ds", "Signature")
	sigValue := newSoapElement("ds", "SignatureValue")
	sigValue.Value = codec.EncodeBase64(digest)
	sig.AddChild(sigValue)

	keyInfo := newSoapElement("ds", "KeyInfo")
	customToken := newSoapElement("wsse", "CustomToken")
	customToken.Value = token
	keyInfo.AddChild(customToken)
	sig.AddChild(keyInfo)

	sec.Children = append([]*xmlmodel.Element{sig}, sec.Children...)
	sig.Parent = sec
	m.Security.Encryption = EncryptionSigning
	return nil
}

func digestAlgorithmFor(name string) (codec.DigestAlgorithm, error) {
	switch name {
	case "sha1":
		return codec.DigestSHA1, nil
	case "sha256", "":
		return codec.DigestSHA256, nil
	case "sha384":
		return codec.DigestSHA384, nil
	case "sha512":
		return codec.DigestSHA512, nil
	case "md5":
		return codec.DigestMD5, nil
	}
	return 0, &UsageError{Reason: "unknown signing method " + name}
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// EncryptBody replaces the Body's single parameter-object child with
// an xenc:EncryptionData wrapper carrying the AES-256-encrypted,
// base64-encoded serialized body, per spec §4.7 step 5.
func (m *Message) EncryptBody(password string) error {
	if m.Body == nil {
		return &UsageError{Reason: "EncryptBody requires a Body"}
	}
	m.ensureEnvelopeNamespace("xenc", NSXMLEnc)
	m.ensureEnvelopeNamespace("ds", NSDSig)

	plain := xmlmodel.Canonicalize(m.Body)
	cipher, err := codec.EncryptAES256(password, plain)
	if err != nil {
		return err
	}

	encData := newSoapElement("xenc", "EncryptionData")
	cypherData := newSoapElement("ds", "CypherData")
	cypherValue := newSoapElement("ds", "CypherValue")
	cypherValue.Value = codec.EncodeBase64(cipher)
	cypherData.AddChild(cypherValue)
	encData.AddChild(cypherData)

	m.Body.Children = []*xmlmodel.Element{encData}
	encData.Parent = m.Body
	m.ParameterObject = nil
	m.Security.Encryption = EncryptionBody
	return nil
}

// EncryptMessage wraps the entire serialized envelope in a shell
// Envelope carrying a single xenc:EncryptionData element, protecting
// headers as well as the body.
func (m *Message) EncryptMessage(password string) ([]byte, error) {
	plain, err := m.GetSoapMessage()
	if err != nil {
		return nil, err
	}
	cipher, err := codec.EncryptAES256(password, plain)
	if err != nil {
		return nil, err
	}

	shell := newSoapElement("s", "Envelope")
	shell.SetAttribute("xmlns:s", envelopeNamespace(m.Version))
	shell.SetAttribute("xmlns:xenc", NSXMLEnc)
	shell.SetAttribute("xmlns:ds", NSDSig)

	encData := newSoapElement("xenc", "EncryptionData")
	cypherData := newSoapElement("ds", "CypherData")
	cypherValue := newSoapElement("ds", "CypherValue")
	cypherValue.Value = codec.EncodeBase64(cipher)
	cypherData.AddChild(cypherValue)
	encData.AddChild(cypherData)
	shell.AddChild(encData)

	doc := xmlmodel.NewMessage()
	doc.Root = shell
	m.Security.Encryption = EncryptionMessage
	return xmlmodel.Print(doc), nil
}
