package core

import (
	"encoding/base64"
	"net/http"
)

// Authenticator attaches credentials to an outgoing request, either inside the
// parameter dictionary or as a header.
type Authenticator interface {
	prepareParams(params Params) Params
	setAuthHeader(headers *http.Header)
}

// createAuthenticators builds one authenticator per API family for a session.
func createAuthenticators(config *Config) map[API]Authenticator {
	basic := &BasicAuthAuthenticator{
		ApiKey:    config.ApiKey,
		ApiSecret: config.ApiSecret,
	}
	basic.authorize()
	return map[API]Authenticator{
		UploadAPI: &SignatureAuthenticator{
			Signer: Signer{
				ApiKey:    config.ApiKey,
				ApiSecret: config.ApiSecret,
				Algorithm: config.SignatureAlgorithm,
			},
		},
		AdminAPI: basic,
	}
}

// SignatureAuthenticator signs upload API dictionaries. The secret itself is
// never sent.
type SignatureAuthenticator struct {
	Signer Signer
}

func (auth *SignatureAuthenticator) prepareParams(params Params) Params {
	return auth.Signer.Sign(params)
}

func (auth *SignatureAuthenticator) setAuthHeader(_ *http.Header) {
	// No-op: credentials travel in the signed parameters
}

// BasicAuthAuthenticator authenticates admin API calls with api_key:api_secret.
type BasicAuthAuthenticator struct {
	ApiKey      string
	ApiSecret   string
	encodedAuth string // Cached Base64-encoded credentials
}

func (auth *BasicAuthAuthenticator) authorize() {
	auth.encodedAuth = base64.StdEncoding.EncodeToString([]byte(auth.ApiKey + ":" + auth.ApiSecret))
}

func (auth *BasicAuthAuthenticator) prepareParams(params Params) Params {
	return params
}

func (auth *BasicAuthAuthenticator) setAuthHeader(headers *http.Header) {
	headers.Set(HeaderAuthorization, AuthTypeBasic+" "+auth.encodedAuth)
}
