package core

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"
	"time"
)

// SignatureAlgorithm is the digest used for request signatures. It is an
// account setting and is never sent with the request.
type SignatureAlgorithm string

const (
	SHA1   SignatureAlgorithm = "sha1"
	SHA256 SignatureAlgorithm = "sha256"
)

func (a SignatureAlgorithm) newHash() hash.Hash {
	if a == SHA256 {
		return sha256.New()
	}
	return sha1.New()
}

// unsignedParams are never part of the string to sign.
var unsignedParams = map[string]struct{}{
	ParamFile:         empty,
	ParamCloudName:    empty,
	ParamResourceType: empty,
	ParamAPIKey:       empty,
	ParamSignature:    empty,
}

// StringToSign builds the canonical form of params: "key=value" pairs in
// ascending key order joined with '&'. Collection values are comma joined,
// empty values and file payloads are skipped.
func StringToSign(params Params) string {
	parts := make([]string, 0, len(params))
	for _, key := range params.Keys() {
		if _, skip := unsignedParams[key]; skip {
			continue
		}
		value, ok := signValue(params[key])
		if !ok {
			continue
		}
		parts = append(parts, key+"="+value)
	}
	return strings.Join(parts, "&")
}

func signValue(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil, FileData:
		return "", false
	case string:
		s = t
	case []string:
		s = strings.Join(t, ",")
	default:
		s = fmt.Sprint(t)
	}
	return s, s != ""
}

// Digest returns the lowercase hex digest of s.
func Digest(s string, algo SignatureAlgorithm) string {
	h := algo.newHash()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// SignParameters computes the request signature: digest(StringToSign(params) + secret).
func SignParameters(params Params, secret string, algo SignatureAlgorithm) string {
	return Digest(StringToSign(params)+secret, algo)
}

// Signer adds authentication fields to upload API dictionaries.
type Signer struct {
	ApiKey    string
	ApiSecret string
	Algorithm SignatureAlgorithm
	// Now is the clock used for the timestamp field; time.Now when nil.
	Now func() time.Time
}

func (s *Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Sign returns a copy of params with timestamp, api_key and signature set.
// A caller supplied timestamp is kept.
func (s *Signer) Sign(params Params) Params {
	signed := params.Clone()
	if _, ok := signed[ParamTimestamp]; !ok {
		signed[ParamTimestamp] = strconv.FormatInt(s.now().Unix(), 10)
	}
	signed.Without(ParamSignature)
	signed[ParamSignature] = SignParameters(signed, s.ApiSecret, s.Algorithm)
	signed[ParamAPIKey] = s.ApiKey
	return signed
}

// VerifyResponseSignature checks the signature returned with an upload
// response: digest("public_id=..&version=.." + secret).
func VerifyResponseSignature(publicID string, version int64, signature, secret string, algo SignatureAlgorithm) bool {
	expected := SignParameters(Params{
		"public_id": publicID,
		"version":   strconv.FormatInt(version, 10),
	}, secret, algo)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// VerifyNotificationSignature checks a webhook callback: digest(body + timestamp + secret).
// Notifications older than validFor (measured against now) are rejected.
func VerifyNotificationSignature(body string, timestamp int64, signature, secret string, algo SignatureAlgorithm, validFor time.Duration, now time.Time) bool {
	if validFor > 0 && now.Sub(time.Unix(timestamp, 0)) > validFor {
		return false
	}
	expected := Digest(body+strconv.FormatInt(timestamp, 10)+secret, algo)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
