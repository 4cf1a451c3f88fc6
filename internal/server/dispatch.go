package server

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	apperrors "rewrite-router/internal/common/errors"
	"rewrite-router/internal/common/logging"
	"rewrite-router/internal/routing"
)

// Dispatcher matches every inbound request against the rule engine and
// applies the directive of the first matching rule: redirects are answered
// directly, rewrites and unmatched requests are proxied to the upstream, and
// header rules decorate the response before passing the request through.
type Dispatcher struct {
	engine   *routing.RuleEngine
	upstream *url.URL
	proxy    *httputil.ReverseProxy
	logger   logging.Logger
}

// NewDispatcher creates a dispatcher. upstreamURL may be empty, in which case
// rewrites and pass-through requests answer 502 and 404 respectively.
func NewDispatcher(engine *routing.RuleEngine, upstreamURL string, logger logging.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	d := &Dispatcher{engine: engine, logger: logger}

	if upstreamURL != "" {
		upstream, err := url.Parse(upstreamURL)
		if err != nil {
			return nil, apperrors.ConfigError("invalid upstream URL: " + upstreamURL)
		}
		d.upstream = upstream
		d.proxy = httputil.NewSingleHostReverseProxy(upstream)
		d.proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("upstream request failed", apperrors.UpstreamError("proxy request failed", err),
				logging.String("path", r.URL.Path),
			)
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}
	}

	return d, nil
}

// NewRequestView projects an http.Request onto the view the rule engine
// matches against. Header names are lower-cased and only the first value of
// a multi-valued header is carried; query values keep their decoded form,
// while the undecoded wire values are recorded separately so guard matching
// can tell when a decoded value differs from what was on the wire.
func NewRequestView(r *http.Request) *routing.RequestView {
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			headers[strings.ToLower(name)] = values[0]
		}
	}

	cookies := make(map[string]string)
	for _, c := range r.Cookies() {
		cookies[c.Name] = c.Value
	}

	return &routing.RequestView{
		Headers:            headers,
		Cookies:            cookies,
		Query:              r.URL.Query(),
		Host:               r.Host,
		InitialQueryValues: rawQueryValues(r.URL.RawQuery),
	}
}

// rawQueryValues extracts the value part of every query pair without
// decoding it.
func rawQueryValues(rawQuery string) []string {
	var values []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		if i := strings.IndexByte(pair, '='); i >= 0 {
			values = append(values, pair[i+1:])
		}
	}
	return values
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view := NewRequestView(r)

	match, err := d.engine.Match(view, r.URL.Path)
	if err != nil {
		d.logger.Error("rule resolution failed", err, logging.String("path", r.URL.Path))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if match == nil {
		d.passThrough(w, r)
		return
	}

	switch match.Rule.Kind {
	case routing.KindRedirect:
		d.redirect(w, match)

	case routing.KindRewrite:
		d.rewrite(w, r, match)

	case routing.KindHeaders:
		for name, value := range match.Headers {
			w.Header().Set(name, value)
		}
		d.passThrough(w, r)

	default:
		d.logger.Error("unhandled rule kind", nil, logging.String("kind", string(match.Rule.Kind)))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// redirect answers with a Location composed from the resolved destination:
// pathname, merged query, then hash.
func (d *Dispatcher) redirect(w http.ResponseWriter, match *routing.RouteMatch) {
	dest := match.Destination

	location := dest.Pathname
	if len(dest.Query) > 0 {
		location += "?" + dest.Query.Encode()
	}
	location += dest.Hash

	status := match.Rule.StatusCode
	if status == 0 {
		status = http.StatusTemporaryRedirect
	}

	w.Header().Set("Location", location)
	w.WriteHeader(status)
}

// rewrite forwards the request to the upstream under the resolved path and
// merged query. The hash fragment never travels on the wire.
func (d *Dispatcher) rewrite(w http.ResponseWriter, r *http.Request, match *routing.RouteMatch) {
	if d.proxy == nil {
		d.logger.Error("rewrite without upstream", nil, logging.String("rule", match.Rule.Name))
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}

	dest := match.Destination
	r.URL.Path = dest.Pathname
	r.URL.RawPath = ""
	r.URL.RawQuery = dest.Query.Encode()

	d.proxy.ServeHTTP(w, r)
}

// passThrough sends an unmatched request to the upstream unchanged, or 404s
// when no upstream is configured.
func (d *Dispatcher) passThrough(w http.ResponseWriter, r *http.Request) {
	if d.proxy == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	d.proxy.ServeHTTP(w, r)
}
