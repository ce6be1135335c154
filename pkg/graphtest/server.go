// Package graphtest provides an in-process fake Graph API server for tests.
package graphtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// Request is one request seen by the Server.
type Request struct {
	Method string
	Path   string
	// Params merges the query string and any form body.
	Params url.Values
	Header http.Header
}

type route struct {
	status  int
	body    string
	headers map[string]string
}

// Server is a fake Graph API. Routes are matched on method and exact path;
// anything unregistered gets a Graph-style 404.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	routes   map[string]route
	requests []Request
}

// NewServer starts a Server. Callers must Close it.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{routes: map[string]route{}}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.NoRoute(s.dispatch)
	engine.NoMethod(s.dispatch)

	s.srv = httptest.NewServer(engine)
	return s
}

// URL is the server's base URL.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// Handle registers the response for verb and path.
func (s *Server) Handle(verb, path string, status int, body string) {
	s.HandleWithHeaders(verb, path, status, body, nil)
}

// HandleWithHeaders is Handle with extra response headers.
func (s *Server) HandleWithHeaders(verb, path string, status int, body string, headers map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[routeKey(verb, path)] = route{status: status, body: body, headers: headers}
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, if any.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) dispatch(c *gin.Context) {
	params := url.Values{}
	for k, v := range c.Request.URL.Query() {
		params[k] = append(params[k], v...)
	}
	if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") {
		raw, _ := io.ReadAll(c.Request.Body)
		if form, err := url.ParseQuery(string(raw)); err == nil {
			for k, v := range form {
				params[k] = append(params[k], v...)
			}
		}
	}

	req := Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Params: params,
		Header: c.Request.Header.Clone(),
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	r, ok := s.routes[routeKey(req.Method, req.Path)]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{
			"message": "Unknown path components: " + req.Path,
			"type":    "OAuthException",
			"code":    2500,
		}})
		return
	}
	for k, v := range r.headers {
		c.Header(k, v)
	}
	c.Data(r.status, "application/json; charset=UTF-8", []byte(r.body))
}

func routeKey(verb, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.ToUpper(strings.TrimSpace(verb)) + " " + path
}
