package relay

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// Prefix is the path prefix the proxy serves.
const Prefix = "/mcp"

// Proxy forwards Prefix requests to the MCP backend with a fresh bearer token
// and follows a single 307 redirect from the backend.
type Proxy struct {
	backend *url.URL
	signer  *Signer
	logger  *slog.Logger
	rp      *httputil.ReverseProxy
}

// NewProxy creates a proxy for backend, e.g. "http://localhost:5001/mcp".
func NewProxy(backend string, signer *Signer, logger *slog.Logger) (*Proxy, error) {
	u, err := url.Parse(backend)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", backend)
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Proxy{backend: u, signer: signer, logger: logger}
	p.rp = &httputil.ReverseProxy{
		Rewrite:       p.rewrite,
		Transport:     &redirectTransport{next: http.DefaultTransport, logger: logger},
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("backend request failed", "path", r.URL.Path, "error", err)
			http.Error(w, "Error contacting backend MCP: "+err.Error(), http.StatusBadGateway)
		},
	}
	return p, nil
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	rest := strings.TrimPrefix(pr.In.URL.Path, Prefix)

	out := pr.Out.URL
	out.Scheme = p.backend.Scheme
	out.Host = p.backend.Host
	out.Path = strings.TrimRight(p.backend.Path, "/") + rest
	out.RawPath = ""
	out.RawQuery = pr.In.URL.RawQuery
	pr.Out.Host = p.backend.Host
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != Prefix && !strings.HasPrefix(r.URL.Path, Prefix+"/") {
		http.NotFound(w, r)
		return
	}

	token, err := p.signer.Token()
	if err != nil {
		p.logger.Error("mint token", "error", err)
		http.Error(w, "token unavailable", http.StatusInternalServerError)
		return
	}
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+token)

	p.logger.Debug("proxying request", "method", r.Method, "path", r.URL.Path)
	p.rp.ServeHTTP(w, r)
}

// redirectTransport replays a request once when the backend answers 307.
type redirectTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (t *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusTemporaryRedirect {
		return resp, err
	}

	loc, err := resp.Location()
	if err != nil {
		return resp, nil
	}
	resp.Body.Close()
	t.logger.Info("following 307 redirect", "location", loc.String())

	again := req.Clone(req.Context())
	again.URL = loc
	again.Host = loc.Host
	if body != nil {
		again.Body = io.NopCloser(bytes.NewReader(body))
		again.ContentLength = int64(len(body))
	}
	return t.next.RoundTrip(again)
}
