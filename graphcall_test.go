package graphcall

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/loykin/graphcall/pkg/graphtest"
)

func TestNewClient_EndToEnd(t *testing.T) {
	srv := graphtest.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/me", http.StatusOK, `{"id":"4","name":"Mark"}`)
	srv.Handle("POST", "/me/feed", http.StatusOK, `{"id":"4_1"}`)
	srv.Handle("GET", "/broken", http.StatusServiceUnavailable, `{"error":{"message":"down","type":"GraphMethodException","code":1}}`)

	api, err := NewClient(context.Background(), ClientConfig{
		Credentials: Credentials{AccessToken: "user-token", AppSecret: "app-secret"},
		BaseURL:     srv.URL(),
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	me, err := api.Get(context.Background(), "me", Params{"fields": []string{"id", "name"}}, WithAppsecretProof(true))
	if err != nil {
		t.Fatalf("get me: %v", err)
	}
	if m, ok := me.(map[string]any); !ok || m["name"] != "Mark" {
		t.Fatalf("unexpected result %#v", me)
	}
	req, _ := srv.LastRequest()
	if req.Params.Get("appsecret_proof") != AppsecretProof("app-secret", "user-token") {
		t.Fatalf("expected appsecret_proof on the wire, got %v", req.Params)
	}

	resp, err := api.Post(context.Background(), "/me/feed", Params{"message": "hi"}, WithComponent(ComponentResponse))
	if err != nil {
		t.Fatalf("post feed: %v", err)
	}
	if r, ok := resp.(*Response); !ok || r.Status != http.StatusOK {
		t.Fatalf("expected raw response, got %#v", resp)
	}

	_, err = api.Get(context.Background(), "broken", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "down" || !IsServerError(err) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestNew_WithTransportFunc(t *testing.T) {
	var gotPath string
	tr := TransportFunc(func(_ context.Context, path string, _ Params, _ string, _ map[string]any) (*Response, error) {
		gotPath = path
		return &Response{Status: 200, Body: "false"}, nil
	})

	got, err := New(tr, "", "").Call(context.Background(), "anything", nil, "")
	if err != nil || got != false {
		t.Fatalf("expected false, got %#v %v", got, err)
	}
	if gotPath != "/anything" {
		t.Fatalf("unexpected path %q", gotPath)
	}

	status, err := New(tr, "", "").Call(context.Background(), "x", nil, "get", WithComponent(ParseComponent("status")))
	if err != nil || status != 200 {
		t.Fatalf("expected status 200, got %#v %v", status, err)
	}
}

func TestNew_MalformedBody(t *testing.T) {
	tr := TransportFunc(func(context.Context, string, Params, string, map[string]any) (*Response, error) {
		return &Response{Status: 200, Body: "<html>"}, nil
	})
	_, err := New(tr, "", "").Call(context.Background(), "x", nil, "")
	if !errors.Is(err, ErrMalformedJSON) {
		t.Fatalf("expected ErrMalformedJSON, got %v", err)
	}
}

func TestNewClient_RetriesServerErrors(t *testing.T) {
	srv := graphtest.NewServer()
	defer srv.Close()
	srv.Handle("GET", "/me", http.StatusBadGateway, `{"error":{"message":"upstream","code":2}}`)

	rc := DefaultRetryConfig()
	rc.MaxRetries = 2
	rc.InitialDelay = time.Millisecond
	rc.MaxDelay = time.Millisecond

	api, err := NewClient(context.Background(), ClientConfig{
		Credentials: Credentials{AccessToken: "tok"},
		BaseURL:     srv.URL(),
		Retry:       rc,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = api.Get(context.Background(), "me", nil)
	if !IsServerError(err) {
		t.Fatalf("expected server error, got %v", err)
	}
	if n := len(srv.Requests()); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}
