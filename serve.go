package dispatch

import (
	"net/http"
	"strings"
)

// FromHTTP translates an incoming net/http request. Path parameters are
// lifted from the ServeMux pattern the request matched, when there is one;
// transports with their own routing call SetPathValue on the parts instead.
func FromHTTP(r *http.Request) *Request {
	parts := &Parts{
		Method:     r.Method,
		Target:     r.URL.RequestURI(),
		Proto:      r.Proto,
		Header:     r.Header,
		RemoteAddr: r.RemoteAddr,
	}
	for _, name := range patternParams(r.Pattern) {
		parts.SetPathValue(name, r.PathValue(name))
	}
	return Join(parts, NewBody(r.Body))
}

// patternParams extracts the wildcard names from a ServeMux pattern such as
// "GET /users/{id}" or "/files/{path...}".
func patternParams(pattern string) []string {
	if pattern == "" {
		return nil
	}
	// Strip the optional "METHOD " prefix, then the host.
	if _, rest, ok := strings.Cut(pattern, " "); ok {
		pattern = rest
	}
	if i := strings.Index(pattern, "/"); i > 0 {
		pattern = pattern[i:]
	}

	var names []string
	for seg := range strings.SplitSeq(pattern, "/") {
		if len(seg) < 2 || seg[0] != '{' || seg[len(seg)-1] != '}' {
			continue
		}
		name := seg[1 : len(seg)-1]
		name = strings.TrimSuffix(name, "...")
		if name == "" || name == "$" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// ServeHTTP implements http.Handler, making a bound handler mountable on
// any net/http mux or server.
func (b *BoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := b.Call(r.Context(), FromHTTP(r))
	//nolint:errcheck,gosec // best-effort after WriteHeader
	resp.Write(w)
}

// Serve binds a handler to its state as an http.Handler.
func Serve(h Handler, s *State) http.Handler {
	return Bind(h, s)
}

// Register mounts a handler on a ServeMux under "METHOD /pattern", the
// stdlib method-qualified route form.
func Register(mux *http.ServeMux, method, pattern string, h Handler, s *State) {
	mux.Handle(method+" "+pattern, Serve(h, s))
}
