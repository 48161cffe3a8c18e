// Package dispatch turns plain typed functions into HTTP handlers. Each
// argument type declares how it binds from the request, and the package
// derives extraction, validation, and response encoding from the function
// signature alone.
//
// A function becomes a Handler through an arity adapter:
//
//	h := dispatch.Func2(func(ctx context.Context, key dispatch.Path[uuid.UUID], body dispatch.JSON[CreateItem]) (*Item, error) {
//		...
//	})
//
// Arguments bind strictly left to right and the first failure short-circuits
// into a problem details response; the function only runs once every
// argument bound. The final argument may consume the request body; all
// earlier arguments must bind from the request parts alone, and using a
// body binder such as JSON or Form anywhere but last does not compile.
//
// Binding is an open protocol. Any type whose pointer implements
// PartsBinder (or RequestBinder, for the final position) is a valid
// argument:
//
//	type Tenant struct{ ID string }
//
//	func (t *Tenant) BindParts(ctx context.Context, p *dispatch.Parts, s *dispatch.State) error {
//		t.ID = p.Header.Get("X-Tenant-ID")
//		if t.ID == "" {
//			return dispatch.Reject(http.StatusUnauthorized, dispatch.SourceHeader, "missing tenant")
//		}
//		return nil
//	}
//
// Results convert totally: nil means 204, errors render as RFC 9457
// problem bodies, strings and byte slices map to their natural content
// types, and everything else is JSON. Handlers compose with layers and are
// bound to shared application state before mounting:
//
//	state := dispatch.NewState()
//	dispatch.Provide(state, store)
//
//	mux := http.NewServeMux()
//	dispatch.Register(mux, http.MethodPost, "/items", dispatch.Stack(h, dispatch.Logging(logger)), state)
package dispatch
