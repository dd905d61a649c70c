// Package request decodes the inbound HTTP surface into a typed envelope.
// The method is the discriminant: anything outside GET/POST is rejected at
// decode time and never reaches the router.
package request

import (
	"net/http"
	"strings"

	"github.com/genflow/prbridge/internal/fault"
)

// Envelope is the validated request union. Implementations are Get and Post.
type Envelope interface {
	envelope()
}

// Get carries the query flags of a GET request.
type Get struct {
	Health   bool
	Detailed bool
}

func (Get) envelope() {}

// Post carries the webhook headers and the raw body bytes. The body stays
// exactly as received: the signature is computed over these bytes, and
// re-encoding a parsed value can change them.
type Post struct {
	Event       string
	Delivery    string
	Signature   string
	ContentType string
	Body        []byte
}

func (Post) envelope() {}

// Decode builds an envelope from the request line, headers, and the already
// consumed body. The caller reads the body so it is drained exactly once.
func Decode(r *http.Request, body []byte) (Envelope, error) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		return Get{
			Health:   q.Has("health"),
			Detailed: strings.EqualFold(q.Get("detailed"), "true"),
		}, nil
	case http.MethodPost:
		return Post{
			Event:       r.Header.Get("X-GitHub-Event"),
			Delivery:    r.Header.Get("X-GitHub-Delivery"),
			Signature:   r.Header.Get("X-Hub-Signature-256"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		}, nil
	default:
		return nil, fault.Newf(fault.KindDecode, "unsupported request method %q", r.Method).
			With("supported", []string{http.MethodGet, http.MethodPost})
	}
}
