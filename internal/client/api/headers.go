package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/furnistore/internal/client/storage"
	"github.com/dmitrijs2005/furnistore/internal/common"
	"github.com/dmitrijs2005/furnistore/internal/logging"
	"golang.org/x/oauth2"
)

// HeaderBuilder produces the header set for outgoing API requests.
type HeaderBuilder struct {
	fallback storage.Reader
	log      logging.Logger
}

// NewHeaderBuilder returns a builder that falls back to the durable token when
// the caller has none. fallback may be nil.
func NewHeaderBuilder(fallback storage.Reader, log logging.Logger) *HeaderBuilder {
	if log == nil {
		log = logging.Discard()
	}
	return &HeaderBuilder{fallback: fallback, log: log}
}

// Build returns headers for a request carrying tok. With includeContentType
// the JSON content type is set; pass false for multipart bodies so the
// transport can set the boundary itself.
//
// An empty tok triggers a read of the durable token. The token is copied
// verbatim into the Authorization header; no validation happens here.
func (b *HeaderBuilder) Build(ctx context.Context, tok string, includeContentType bool) http.Header {
	h := make(http.Header)
	h.Set(common.HeaderAccept, common.ContentTypeJSON)
	if includeContentType {
		h.Set(common.HeaderContentType, common.ContentTypeJSON)
	}

	if tok == "" {
		tok = b.storedToken(ctx)
	}
	if tok != "" {
		t := &oauth2.Token{AccessToken: tok}
		h.Set(common.HeaderAuthorization, t.Type()+" "+t.AccessToken)
	}
	return h
}

func (b *HeaderBuilder) storedToken(ctx context.Context) string {
	if b.fallback == nil {
		return ""
	}
	v, err := b.fallback.Get(ctx, common.StorageKeyToken)
	if err != nil {
		b.log.Debug(ctx, "stored token unavailable", "error", err)
		return ""
	}
	return string(v)
}
