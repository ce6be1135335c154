package graph

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/loykin/graphcall/internal/common"
)

// recordingTransport captures the arguments of every MakeRequest call.
type recordingTransport struct {
	mu    sync.Mutex
	calls []recordedCall
	resp  *Response
	err   error
}

type recordedCall struct {
	path        string
	params      Params
	verb        string
	httpOptions map[string]any
}

func (rt *recordingTransport) MakeRequest(_ context.Context, path string, params Params, verb string, httpOptions map[string]any) (*Response, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.calls = append(rt.calls, recordedCall{path: path, params: params, verb: verb, httpOptions: httpOptions})
	return rt.resp, rt.err
}

func (rt *recordingTransport) last(t *testing.T) recordedCall {
	t.Helper()
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if len(rt.calls) == 0 {
		t.Fatal("transport was not called")
	}
	return rt.calls[len(rt.calls)-1]
}

func okTransport(body string) *recordingTransport {
	return &recordingTransport{resp: NewResponse(http.StatusOK, body, http.Header{})}
}

func TestCall_NoAccessTokenWhenNoneGiven(t *testing.T) {
	rt := okTransport("")
	api := New(rt, "", "")

	if _, err := api.Call(context.Background(), "anything", nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rt.last(t).params[ParamAccessToken]; ok {
		t.Fatalf("access_token must not be sent without a token: %v", rt.last(t).params)
	}
}

func TestCall_IncludesAccessTokenWhenGiven(t *testing.T) {
	rt := okTransport("")
	api := New(rt, "adfadf", "")

	if _, err := api.Call(context.Background(), "anything", nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rt.last(t).params[ParamAccessToken]; got != "adfadf" {
		t.Fatalf("expected access_token adfadf, got %v", got)
	}
	if api.AccessToken() != "adfadf" {
		t.Fatalf("expected AccessToken() to return the token, got %q", api.AccessToken())
	}
}

func TestCall_ForwardsCanonicalRequest(t *testing.T) {
	rt := okTransport("")
	api := New(rt, "", "")

	params := Params{"foo": []any{1, 2, "3", "four"}}
	if _, err := api.Call(context.Background(), "12345", params, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := rt.last(t)
	if call.path != "/12345" {
		t.Fatalf("expected path /12345, got %q", call.path)
	}
	if !reflect.DeepEqual(call.params, Params{"foo": "1,2,3,four"}) {
		t.Fatalf("unexpected params: %#v", call.params)
	}
	if call.verb != "get" {
		t.Fatalf("expected default verb get, got %q", call.verb)
	}
	if call.httpOptions == nil || len(call.httpOptions) != 0 {
		t.Fatalf("expected empty http options, got %#v", call.httpOptions)
	}
	if _, ok := params["foo"].([]any); !ok {
		t.Fatal("caller params must not be mutated")
	}
}

func TestCall_LeavesNestedListsForTransport(t *testing.T) {
	rt := okTransport("")
	api := New(rt, "", "")

	nested := []any{1, 2, []any{"3"}, "four"}
	if _, err := api.Call(context.Background(), "12345", Params{"foo": nested}, "get"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rt.last(t).params["foo"], nested) {
		t.Fatalf("nested list should pass through, got %#v", rt.last(t).params["foo"])
	}
}

func TestCall_LeadingSlash(t *testing.T) {
	for in, want := range map[string]string{"anything": "/anything", "/anything": "/anything"} {
		rt := okTransport("true")
		if _, err := New(rt, "", "").Call(context.Background(), in, nil, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := rt.last(t).path; got != want {
			t.Fatalf("path %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestCall_ReturnsResponseField(t *testing.T) {
	rt := &recordingTransport{resp: NewResponse(http.StatusOK, "", http.Header{"X-App-Usage": {"{}"}})}
	api := New(rt, "", "")

	got, err := api.Call(context.Background(), "anything", Params{}, "get", WithComponent(ComponentField("headers")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, rt.resp.Headers) {
		t.Fatalf("expected headers, got %#v", got)
	}

	got, err = api.Call(context.Background(), "anything", Params{}, "get", WithComponent(ComponentField("status")))
	if err != nil || got != http.StatusOK {
		t.Fatalf("expected status 200, got %v (err=%v)", got, err)
	}
}

func TestCall_ReturnsWholeResponse(t *testing.T) {
	rt := okTransport("")
	got, err := New(rt, "", "").Call(context.Background(), "anything", Params{}, "get", WithComponent(ComponentResponse))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != rt.resp {
		t.Fatalf("expected the identical *Response, got %#v", got)
	}
}

func TestCall_UnwrapsSingletonJSON(t *testing.T) {
	rt := okTransport(`[{"id":"1"}]`)
	got, err := New(rt, "", "").Call(context.Background(), "anything", nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]any{"id": "1"}) {
		t.Fatalf("unexpected result: %#v", got)
	}
}

func TestCall_ErrorCallbackSeesResponse(t *testing.T) {
	rt := okTransport("{}")
	calls := 0
	var seen *Response

	_, err := New(rt, "", "").Call(context.Background(), "anything", Params{}, "get", WithErrorCallback(func(r *Response) {
		calls++
		seen = r
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || seen != rt.resp {
		t.Fatalf("expected one callback with the raw response, got calls=%d seen=%p", calls, seen)
	}
}

func TestCall_ErrorCallbackRunsOnServerError(t *testing.T) {
	rt := &recordingTransport{resp: NewResponse(http.StatusInternalServerError, "response body", nil)}
	calls := 0

	_, err := New(rt, "", "").Call(context.Background(), "anything", nil, "", WithErrorCallback(func(*Response) { calls++ }))
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected callback once, got %d", calls)
	}
}

func TestCall_ServerErrorRaisesAPIError(t *testing.T) {
	rt := &recordingTransport{resp: NewResponse(http.StatusInternalServerError, "response body", nil)}

	_, err := New(rt, "", "").Call(context.Background(), "anything", nil, "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != 500 || apiErr.Body != "response body" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestCall_RogueBooleans(t *testing.T) {
	for body, want := range map[string]bool{"true": true, "false": false} {
		got, err := New(okTransport(body), "", "").Call(context.Background(), "anything", nil, "")
		if err != nil {
			t.Fatalf("body %q: unexpected error: %v", body, err)
		}
		if got != want {
			t.Fatalf("body %q: expected %v, got %#v", body, want, got)
		}
	}
}

func TestCall_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	rt := &recordingTransport{err: boom}

	_, err := New(rt, "tok", "").Call(context.Background(), "me", nil, "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestCall_NilResponseAndNilTransport(t *testing.T) {
	if _, err := New(&recordingTransport{}, "", "").Call(context.Background(), "me", nil, ""); err == nil {
		t.Fatal("expected error for nil response")
	}
	if _, err := New(nil, "", "").Call(context.Background(), "me", nil, ""); err == nil {
		t.Fatal("expected error for nil transport")
	}
}

func TestCall_AppsecretProofMatrix(t *testing.T) {
	const (
		token  = "access_token"
		secret = "appsecret"
		path   = "/path"
	)
	proof := AppsecretProof(secret, token)

	tests := []struct {
		name   string
		token  string
		secret string
		opts   []Option
		want   Params
	}{
		{"proof on, token and secret", token, secret, []Option{WithAppsecretProof(true)}, Params{"access_token": token, "appsecret_proof": proof}},
		{"proof on, token only", token, "", []Option{WithAppsecretProof(true)}, Params{"access_token": token}},
		{"proof on, secret only", "", secret, []Option{WithAppsecretProof(true)}, Params{}},
		{"proof on, nothing", "", "", []Option{WithAppsecretProof(true)}, Params{}},
		{"proof off, token and secret", token, secret, []Option{WithAppsecretProof(false)}, Params{"access_token": token}},
		{"default, token and secret", token, secret, nil, Params{"access_token": token}},
		{"default, token only", token, "", nil, Params{"access_token": token}},
		{"proof off, secret only", "", secret, []Option{WithAppsecretProof(false)}, Params{}},
		{"default, nothing", "", "", nil, Params{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := okTransport("")
			api := New(rt, tt.token, tt.secret)
			if _, err := api.Call(context.Background(), path, Params{}, "get", tt.opts...); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			call := rt.last(t)
			if call.path != path || call.verb != "get" {
				t.Fatalf("unexpected request %q %q", call.verb, call.path)
			}
			if !reflect.DeepEqual(call.params, tt.want) {
				t.Fatalf("expected %#v, got %#v", tt.want, call.params)
			}
		})
	}
}

func TestCall_HTTPOptionsForwarded(t *testing.T) {
	rt := okTransport("")
	opts := map[string]any{"beta": true}
	if _, err := New(rt, "", "").Post(context.Background(), "me/feed", Params{"message": "hi"}, WithHTTPOptions(opts)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := rt.last(t)
	if call.verb != "post" || !reflect.DeepEqual(call.httpOptions, opts) {
		t.Fatalf("unexpected call: %+v", call)
	}
}

func TestCall_ConcurrentUse(t *testing.T) {
	rt := okTransport(`{"id":"1"}`)
	api := New(rt, "tok", "secret")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := api.Get(context.Background(), "me", Params{"fields": []string{"id", "name"}}, WithAppsecretProof(true))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if len(rt.calls) != 16 {
		t.Fatalf("expected 16 calls, got %d", len(rt.calls))
	}
	for _, c := range rt.calls {
		if c.params["fields"] != "id,name" || c.params[ParamAppsecretProof] != AppsecretProof("secret", "tok") {
			t.Fatalf("unexpected params: %#v", c.params)
		}
	}
}

func TestCall_DebugLogKeepsComponentAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewTextLoggerTo(&buf, common.LogLevelDebug)
	api := New(okTransport(`{"id":"1"}`), "tok", "", WithLogger(logger))

	if _, err := api.Call(context.Background(), "me", nil, "get", WithComponent(ComponentField("status"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var callLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, `msg="graph call"`) {
			callLine = line
		}
	}
	if callLine == "" {
		t.Fatalf("debug call line missing: %s", buf.String())
	}
	if n := strings.Count(callLine, " component="); n != 1 {
		t.Fatalf("expected a single component attribute, got %d in %q", n, callLine)
	}
	if !strings.Contains(callLine, "component=graph") || !strings.Contains(callLine, "http_component=status") {
		t.Fatalf("unexpected call line %q", callLine)
	}
}
