// Package routing implements a declarative rewrite/redirect rule engine for
// HTTP requests.
//
// A rule pairs a source path template with a destination template and an
// optional set of guard conditions over request headers, cookies, query
// parameters and the host. The engine decides whether a rule applies to a
// request, collects the named parameters captured along the way, and
// resolves the destination into a concrete URL with interpolated path
// segments and a merged query string.
//
// The main pieces are:
//
//  1. RuleEngine: holds pre-compiled rules and finds the first match for a
//     request.
//  2. MatchHas: evaluates guard conditions ("has"/"missing" clauses) against
//     a RequestView.
//  3. PrepareDestination: resolves a matched rule's destination template
//     into a final URL, query mapping and parameter set.
//
// Example usage:
//
//	engine := routing.NewRuleEngine(logger)
//	err := engine.AddRule(&routing.RouteRule{
//		Name:        "old-blog",
//		Kind:        routing.KindRedirect,
//		Source:      "/blog/:slug",
//		Destination: "/news/:slug",
//		StatusCode:  308,
//		Has: []routing.RouteHas{
//			{Type: routing.HasTypeHost, Value: `(?P<sub>.*)\.example\.com`},
//		},
//	})
//	if err != nil {
//		log.Fatalf("bad rule: %v", err)
//	}
//
//	match, err := engine.Match(view, "/blog/hello-world")
//	if match != nil {
//		// match.Destination.NewURL == "/news/hello-world"
//	}
//
// All per-request operations are pure with respect to shared state: inputs
// are shallow-copied before mutation and the engine holds no per-request
// mutable state, so concurrent Match calls need no external locking.
package routing
