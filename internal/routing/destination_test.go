package routing

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func TestPrepareDestination(t *testing.T) {
	tests := []struct {
		name     string
		opts     PrepareDestinationOptions
		wantURL  string
		wantPath string
		wantHash string
		wantQry  url.Values
	}{
		{
			name: "path interpolation",
			opts: PrepareDestinationOptions{
				Destination: "/news/:slug",
				Params:      Params{"slug": "hello-world"},
				Query:       url.Values{},
			},
			wantURL:  "/news/hello-world",
			wantPath: "/news/hello-world",
			wantQry:  url.Values{},
		},
		{
			name: "query priority request < params < destination",
			opts: PrepareDestinationOptions{
				Destination:         "/page?b=2",
				Params:              Params{"a": "2"},
				Query:               url.Values{"a": {"1"}},
				AppendParamsToQuery: true,
			},
			wantURL:  "/page",
			wantPath: "/page",
			wantQry:  url.Values{"a": {"2"}, "b": {"2"}},
		},
		{
			name: "destination query wins over appended param",
			opts: PrepareDestinationOptions{
				Destination:         "/page?a=dest",
				Params:              Params{"a": "captured"},
				Query:               url.Values{"a": {"request"}},
				AppendParamsToQuery: true,
			},
			wantURL:  "/page",
			wantPath: "/page",
			wantQry:  url.Values{"a": {"dest"}},
		},
		{
			name: "params not appended when flag is off",
			opts: PrepareDestinationOptions{
				Destination: "/page",
				Params:      Params{"a": "2"},
				Query:       url.Values{},
			},
			wantURL:  "/page",
			wantPath: "/page",
			wantQry:  url.Values{},
		},
		{
			name: "params not appended when destination path consumes one",
			opts: PrepareDestinationOptions{
				Destination:         "/news/:slug",
				Params:              Params{"slug": "x", "extra": "y"},
				Query:               url.Values{},
				AppendParamsToQuery: true,
			},
			wantURL:  "/news/x",
			wantPath: "/news/x",
			wantQry:  url.Values{},
		},
		{
			name: "destination query values interpolate params",
			opts: PrepareDestinationOptions{
				Destination: "/out?tag=:slug&fixed=1",
				Params:      Params{"slug": "go"},
				Query:       url.Values{},
			},
			wantURL:  "/out",
			wantPath: "/out",
			wantQry:  url.Values{"tag": {"go"}, "fixed": {"1"}},
		},
		{
			name: "hash fragment split from pathname",
			opts: PrepareDestinationOptions{
				Destination: "/docs/:slug#install",
				Params:      Params{"slug": "go"},
				Query:       url.Values{},
			},
			wantURL:  "/docs/go#install",
			wantPath: "/docs/go",
			wantHash: "#install",
			wantQry:  url.Values{},
		},
		{
			name: "request query carried through",
			opts: PrepareDestinationOptions{
				Destination: "/target",
				Params:      Params{},
				Query:       url.Values{"keep": {"me"}, "multi": {"1", "2"}},
			},
			wantURL:  "/target",
			wantPath: "/target",
			wantQry:  url.Values{"keep": {"me"}, "multi": {"1", "2"}},
		},
		{
			name: "locale keys stripped and internal locale param withheld",
			opts: PrepareDestinationOptions{
				Destination: "/dest",
				Params:      Params{InternalLocaleParam: "en", "b": "2"},
				Query: url.Values{
					LocaleQueryKey:        {"en"},
					DefaultLocaleQueryKey: {"en"},
					"a":                   {"1"},
				},
				AppendParamsToQuery: true,
			},
			wantURL:  "/dest",
			wantPath: "/dest",
			wantQry:  url.Values{"a": {"1"}, "b": {"2"}},
		},
		{
			name: "internal locale param eligible without locale in query",
			opts: PrepareDestinationOptions{
				Destination:         "/dest",
				Params:              Params{InternalLocaleParam: "en"},
				Query:               url.Values{},
				AppendParamsToQuery: true,
			},
			wantURL:  "/dest",
			wantPath: "/dest",
			wantQry:  url.Values{InternalLocaleParam: {"en"}},
		},
		{
			name: "multi-segment param appended as multi-value query entry",
			opts: PrepareDestinationOptions{
				Destination:         "/dest",
				Params:              Params{"path": []string{"a", "b"}},
				Query:               url.Values{},
				AppendParamsToQuery: true,
			},
			wantURL:  "/dest",
			wantPath: "/dest",
			wantQry:  url.Values{"path": {"a", "b"}},
		},
		{
			name: "star param expands into path",
			opts: PrepareDestinationOptions{
				Destination: "/files/:path*",
				Params:      Params{"path": []string{"a", "b", "c"}},
				Query:       url.Values{},
			},
			wantURL:  "/files/a/b/c",
			wantPath: "/files/a/b/c",
			wantQry:  url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, err := PrepareDestination(tt.opts)
			if err != nil {
				t.Fatalf("PrepareDestination() unexpected error: %v", err)
			}
			if dest.NewURL != tt.wantURL {
				t.Errorf("NewURL = %q, want %q", dest.NewURL, tt.wantURL)
			}
			if dest.Pathname != tt.wantPath {
				t.Errorf("Pathname = %q, want %q", dest.Pathname, tt.wantPath)
			}
			if dest.Hash != tt.wantHash {
				t.Errorf("Hash = %q, want %q", dest.Hash, tt.wantHash)
			}
			if !reflect.DeepEqual(dest.Query, tt.wantQry) {
				t.Errorf("Query = %#v, want %#v", dest.Query, tt.wantQry)
			}
		})
	}
}

func TestPrepareDestinationDoesNotMutateRequestQuery(t *testing.T) {
	query := url.Values{"a": {"1"}, LocaleQueryKey: {"en"}}

	_, err := PrepareDestination(PrepareDestinationOptions{
		Destination: "/dest?b=2",
		Params:      Params{},
		Query:       query,
	})
	if err != nil {
		t.Fatalf("PrepareDestination() unexpected error: %v", err)
	}

	want := url.Values{"a": {"1"}, LocaleQueryKey: {"en"}}
	if !reflect.DeepEqual(query, want) {
		t.Errorf("request query mutated: %#v, want %#v", query, want)
	}
}

func TestPrepareDestinationMultiMatchError(t *testing.T) {
	_, err := PrepareDestination(PrepareDestinationOptions{
		Destination: "/:slug",
		Params:      Params{"slug": []string{"a", "b"}},
		Query:       url.Values{},
	})
	if err == nil {
		t.Fatal("PrepareDestination() expected error for array on non-repeating param")
	}

	var multiMatch *MultiMatchError
	if !errors.As(err, &multiMatch) {
		t.Fatalf("PrepareDestination() error = %v, want MultiMatchError", err)
	}
	if multiMatch.Param != "slug" {
		t.Errorf("MultiMatchError.Param = %q, want %q", multiMatch.Param, "slug")
	}
	if got := multiMatch.Error(); !strings.Contains(got, "`:slug*`") {
		t.Errorf("MultiMatchError message %q should suggest the `:slug*` form", got)
	}
}

func TestPrepareDestinationMissingParamPropagates(t *testing.T) {
	_, err := PrepareDestination(PrepareDestinationOptions{
		Destination: "/news/:slug",
		Params:      Params{},
		Query:       url.Values{},
	})
	if err == nil {
		t.Fatal("PrepareDestination() expected error for missing param")
	}
	var multiMatch *MultiMatchError
	if errors.As(err, &multiMatch) {
		t.Errorf("missing-param error should not be rewritten, got %v", err)
	}
}
