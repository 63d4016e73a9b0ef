// Package security sets response hardening headers and flags requests that
// look like probes.
package security

import (
	"fmt"
	"net/http"
	"strings"
)

// HeadersConfig lists the headers written on every response. Empty values
// are skipped.
type HeadersConfig struct {
	CSP               string
	FrameOptions      string
	ContentTypeOpts   string
	ReferrerPolicy    string
	PermissionsPolicy string
	CrossOriginOpener string
	// HSTSMaxAge is only sent over TLS.
	HSTSMaxAge int
}

// DefaultHeadersConfig suits the bundled single-page UI, which loads its
// script and stylesheet from /static.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP: strings.Join([]string{
			"default-src 'self'",
			"script-src 'self'",
			"style-src 'self'",
			"img-src 'self' data:",
			"connect-src 'self'",
			"object-src 'none'",
			"frame-ancestors 'none'",
			"base-uri 'self'",
			"form-action 'self'",
		}, "; "),
		FrameOptions:      "DENY",
		ContentTypeOpts:   "nosniff",
		ReferrerPolicy:    "strict-origin-when-cross-origin",
		PermissionsPolicy: "geolocation=(), microphone=(), camera=(), payment=()",
		CrossOriginOpener: "same-origin",
		HSTSMaxAge:        31536000,
	}
}

func (c HeadersConfig) apply(h http.Header, tls bool) {
	set := func(k, v string) {
		if v != "" {
			h.Set(k, v)
		}
	}
	set("Content-Security-Policy", c.CSP)
	set("X-Frame-Options", c.FrameOptions)
	set("X-Content-Type-Options", c.ContentTypeOpts)
	set("Referrer-Policy", c.ReferrerPolicy)
	set("Permissions-Policy", c.PermissionsPolicy)
	set("Cross-Origin-Opener-Policy", c.CrossOriginOpener)
	if tls && c.HSTSMaxAge > 0 {
		h.Set("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", c.HSTSMaxAge))
	}
}

// Headers returns middleware writing config's headers before next runs.
func Headers(config HeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			config.apply(w.Header(), r.TLS != nil)
			next.ServeHTTP(w, r)
		})
	}
}

// StaticCache marks responses cacheable for maxAge seconds.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
			}
			next.ServeHTTP(w, r)
		})
	}
}
