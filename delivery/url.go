// Package delivery builds URLs that serve stored and fetched assets, with
// optional transformation and URL signature.
package delivery

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mediacloud/go-mediacloud/core"
	"github.com/mediacloud/go-mediacloud/typed"
)

var (
	versionSegment = regexp.MustCompile(`^v[0-9]+/`)
	remoteSource   = regexp.MustCompile(`^(?i)(https?|ftp)://`)
)

// URL describes one delivery URL.
type URL struct {
	PublicID       string
	ResourceType   core.ResourceType
	Type           core.DeliveryType
	Transformation *core.Transformation
	Version        int64
	Format         string
	// Secure overrides Config.Secure when set.
	Secure *bool
	// SignURL adds an "s--XXXXXXXX--" segment computed from the transformation
	// and the public id. Required for authenticated assets and strict transformations.
	SignURL bool
	// LongSignature signs with SHA-256 and keeps 32 characters instead of 8.
	LongSignature bool
	// ForceVersion adds "v1" to public ids inside folders when no version is
	// given, so the folder is not read as a transformation. Defaults to true.
	ForceVersion *bool
}

// Builder renders URLs for one account.
type Builder struct {
	config *core.Config
}

// NewBuilder creates a builder. The config must carry a cloud name; an api
// secret is only needed for signed URLs.
func NewBuilder(config *core.Config) (*Builder, error) {
	if config == nil {
		return nil, errors.New("config must not be nil")
	}
	err := config.Validate(
		core.WithCloudName,
		core.WithApiBaseAddress(core.DefaultApiBaseAddress),
		core.WithApiVersion(core.DefaultApiVersion),
	)
	if err != nil {
		return nil, err
	}
	return &Builder{config: config}, nil
}

// Build renders u.
func (b *Builder) Build(u URL) (string, error) {
	if u.PublicID == "" {
		return "", core.Required("public_id")
	}
	rt := u.ResourceType
	if rt == "" || rt == core.ResourceTypeAuto {
		rt = core.ResourceTypeImage
	}
	dt := u.Type.OrDefault()

	source, sourceToSign := b.source(u, dt)
	transformation := u.Transformation.String()

	version := ""
	switch {
	case u.Version > 0:
		version = fmt.Sprintf("v%d", u.Version)
	case forceVersion(u) && strings.Contains(source, "/") && !remoteSource.MatchString(sourceToSign) && !versionSegment.MatchString(source):
		version = "v1"
	}

	signature := ""
	if u.SignURL {
		if b.config.ApiSecret == "" {
			return "", errors.New("api secret is required to sign URLs")
		}
		toSign := transformation
		if toSign != "" {
			toSign += "/"
		}
		toSign += sourceToSign
		signature = "s--" + Sign(toSign, b.config.ApiSecret, u.LongSignature) + "--"
	}

	parts := []string{b.prefix(u), string(rt), string(dt), signature, transformation, version, source}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/"), nil
}

// Sign returns the URL signature of toSign: the first 8 characters of the
// url-safe base64 SHA-1 digest of toSign+secret, or 32 characters of the
// SHA-256 digest when long is set.
func Sign(toSign, secret string, long bool) string {
	if long {
		sum := sha256.Sum256([]byte(toSign + secret))
		return base64.URLEncoding.EncodeToString(sum[:])[:32]
	}
	sum := sha1.Sum([]byte(toSign + secret))
	return base64.URLEncoding.EncodeToString(sum[:])[:8]
}

func forceVersion(u URL) bool {
	return u.ForceVersion == nil || *u.ForceVersion
}

// source returns the escaped public id as it appears in the URL and the
// unescaped form that is signed.
func (b *Builder) source(u URL, dt core.DeliveryType) (string, string) {
	if dt == core.DeliveryTypeFetch || remoteSource.MatchString(u.PublicID) {
		return url.PathEscape(u.PublicID), u.PublicID
	}
	id := u.PublicID
	if u.Format != "" && !strings.HasSuffix(id, "."+u.Format) {
		id += "." + u.Format
	}
	return core.JoinPath(id), id
}

func (b *Builder) prefix(u URL) string {
	secure := b.config.Secure
	if u.Secure != nil {
		secure = *u.Secure
	}
	scheme := "http"
	if secure {
		scheme = "https"
	}
	host := b.config.DeliveryHost
	if host == "" {
		host = core.DefaultDeliveryHost
	}
	return scheme + "://" + host + "/" + b.config.CloudName
}

// -----------------------------------------------------
// ARCHIVE DOWNLOAD
// -----------------------------------------------------

// ArchiveURL returns a signed upload API URL that streams an archive of the
// selected assets without storing it.
func (b *Builder) ArchiveURL(p *typed.ArchiveParams) (string, error) {
	if p == nil {
		return "", core.RequireOneOf("PublicIds", "Tags", "Prefixes")
	}
	if err := p.Check(); err != nil {
		return "", err
	}
	if b.config.ApiKey == "" || b.config.ApiSecret == "" {
		return "", errors.New("api key and secret are required to sign archive URLs")
	}
	params := p.ToParams()
	params["mode"] = string(typed.ArchiveDownload)
	signer := &core.Signer{ApiKey: b.config.ApiKey, ApiSecret: b.config.ApiSecret, Algorithm: b.config.SignatureAlgorithm}
	signed := signer.Sign(params)
	endpoint := core.BuildURL(b.config, core.JoinPath(string(p.ResourceType.OrDefault()), "generate_archive"))
	return endpoint + "?" + signed.ToQuery(), nil
}
