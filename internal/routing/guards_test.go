package routing

import (
	"net/url"
	"reflect"
	"testing"
)

func testRequestView() *RequestView {
	return &RequestView{
		Headers: map[string]string{
			"x-custom":      "enabled",
			"authorization": "Bearer token-123",
		},
		Cookies: map[string]string{
			"session": "abc123",
			"Theme":   "dark",
		},
		Query: url.Values{
			"page": {"2"},
			"q":    {"hello world"},
		},
		Host:               "foo.example.com:8080",
		InitialQueryValues: []string{"hello world"},
	}
}

func TestMatchHasEmptyGuardList(t *testing.T) {
	params, ok := MatchHas(testRequestView(), nil, url.Values{})
	if !ok {
		t.Fatal("MatchHas() with zero guards should always match")
	}
	if len(params) != 0 {
		t.Errorf("MatchHas() with zero guards returned params %v, want empty", params)
	}
}

func TestMatchHas(t *testing.T) {
	tests := []struct {
		name       string
		guards     []RouteHas
		wantParams Params
		wantMatch  bool
	}{
		{
			name:       "header existence check captures value",
			guards:     []RouteHas{{Type: HasTypeHeader, Key: "x-custom"}},
			wantParams: Params{"xcustom": "enabled"},
			wantMatch:  true,
		},
		{
			name:       "header key lookup is case-insensitive",
			guards:     []RouteHas{{Type: HasTypeHeader, Key: "X-Custom"}},
			wantParams: Params{"XCustom": "enabled"},
			wantMatch:  true,
		},
		{
			name:      "header value match is case-sensitive",
			guards:    []RouteHas{{Type: HasTypeHeader, Key: "x-custom", Value: "ENABLED"}},
			wantMatch: false,
		},
		{
			name:       "header value pattern match",
			guards:     []RouteHas{{Type: HasTypeHeader, Key: "authorization", Value: `Bearer (?P<token>.*)`}},
			wantParams: Params{"token": "token-123"},
			wantMatch:  true,
		},
		{
			name:      "missing header fails",
			guards:    []RouteHas{{Type: HasTypeHeader, Key: "x-absent"}},
			wantMatch: false,
		},
		{
			name:       "absent header passes absence check without params",
			guards:     []RouteHas{{Type: HasTypeHeader, Key: "x-absent", Absent: true}},
			wantParams: Params{},
			wantMatch:  true,
		},
		{
			name:      "present header fails absence check",
			guards:    []RouteHas{{Type: HasTypeHeader, Key: "x-custom", Absent: true}},
			wantMatch: false,
		},
		{
			name:       "cookie key is case-sensitive",
			guards:     []RouteHas{{Type: HasTypeCookie, Key: "Theme"}},
			wantParams: Params{"Theme": "dark"},
			wantMatch:  true,
		},
		{
			name:      "cookie key wrong case fails",
			guards:    []RouteHas{{Type: HasTypeCookie, Key: "theme"}},
			wantMatch: false,
		},
		{
			name:       "query value match",
			guards:     []RouteHas{{Type: HasTypeQuery, Key: "page", Value: `\d+`}},
			wantParams: Params{},
			wantMatch:  true,
		},
		{
			name:       "host match strips port and captures named group",
			guards:     []RouteHas{{Type: HasTypeHost, Value: `(?P<sub>.*)\.example\.com`}},
			wantParams: Params{"sub": "foo"},
			wantMatch:  true,
		},
		{
			name:       "host match without groups binds host key",
			guards:     []RouteHas{{Type: HasTypeHost, Value: `foo\.example\.com`}},
			wantParams: Params{"host": "foo.example.com"},
			wantMatch:  true,
		},
		{
			name:      "host mismatch fails",
			guards:    []RouteHas{{Type: HasTypeHost, Value: `bar\.example\.com`}},
			wantMatch: false,
		},
		{
			name: "all guards must pass",
			guards: []RouteHas{
				{Type: HasTypeHeader, Key: "x-custom"},
				{Type: HasTypeCookie, Key: "missing-cookie"},
			},
			wantMatch: false,
		},
		{
			name: "later guard overwrites earlier on key collision",
			guards: []RouteHas{
				{Type: HasTypeHeader, Key: "x-custom", Value: `(?P<flag>.*)`},
				{Type: HasTypeCookie, Key: "session", Value: `(?P<flag>.*)`},
			},
			wantParams: Params{"flag": "abc123"},
			wantMatch:  true,
		},
		{
			name:      "invalid pattern is a non-match",
			guards:    []RouteHas{{Type: HasTypeHeader, Key: "x-custom", Value: "[unclosed"}},
			wantMatch: false,
		},
		{
			name:      "unknown guard type resolves to no value",
			guards:    []RouteHas{{Type: HasType("body"), Key: "anything"}},
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequestView()
			params, ok := MatchHas(req, tt.guards, req.Query)
			if ok != tt.wantMatch {
				t.Fatalf("MatchHas() matched = %v, want %v", ok, tt.wantMatch)
			}
			if !tt.wantMatch {
				if params != nil {
					t.Errorf("MatchHas() returned partial params %v on non-match", params)
				}
				return
			}
			if !reflect.DeepEqual(params, tt.wantParams) {
				t.Errorf("MatchHas() params = %#v, want %#v", params, tt.wantParams)
			}
		})
	}
}

func TestMatchHasQueryReencodesInitialValues(t *testing.T) {
	req := testRequestView()

	// "hello world" appeared verbatim on the wire, so guard evaluation must
	// see its percent-encoded form.
	params, ok := MatchHas(req, []RouteHas{{Type: HasTypeQuery, Key: "q"}}, req.Query)
	if !ok {
		t.Fatal("MatchHas() should match existing query key")
	}
	if got := params["q"]; got != "hello%20world" {
		t.Errorf("MatchHas() captured %q, want re-encoded %q", got, "hello%20world")
	}

	// A value not among the initial ones stays as parsed.
	req.InitialQueryValues = nil
	params, ok = MatchHas(req, []RouteHas{{Type: HasTypeQuery, Key: "q"}}, req.Query)
	if !ok {
		t.Fatal("MatchHas() should match existing query key")
	}
	if got := params["q"]; got != "hello world" {
		t.Errorf("MatchHas() captured %q, want %q", got, "hello world")
	}
}

func TestMatchHasQueryDecodedValueMatchesPattern(t *testing.T) {
	req := testRequestView()

	// The wire carried "hello%20world"; the decoded value differs from it,
	// so the guard pattern is matched against the decoded form.
	req.InitialQueryValues = []string{"hello%20world"}

	guards := []RouteHas{{Type: HasTypeQuery, Key: "q", Value: "hello world"}}
	if _, ok := MatchHas(req, guards, req.Query); !ok {
		t.Error("MatchHas() should match the decoded query value")
	}
}
