// Package muxbind mounts dispatch handlers on gorilla/mux routers,
// translating mux route variables into dispatch path parameters.
package muxbind

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okross/dispatch"
)

// Handle mounts h on r under the given method and gorilla path template.
// Route variables such as {id} become path parameters, so the same Path
// binders work unchanged against either router.
func Handle(r *mux.Router, method, path string, h dispatch.Handler, s *dispatch.State) *mux.Route {
	bound := dispatch.Bind(h, s)
	return r.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		dr := dispatch.FromHTTP(req)
		parts := dr.Parts()
		for name, val := range mux.Vars(req) {
			parts.SetPathValue(name, val)
		}
		resp := bound.Call(req.Context(), dr)
		//nolint:errcheck,gosec // best-effort after WriteHeader
		resp.Write(w)
	})).Methods(method)
}
