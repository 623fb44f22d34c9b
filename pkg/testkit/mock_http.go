// Package testkit contains small helpers shared by tests, chiefly a fake
// http.RoundTripper used to stub outbound calls to third-party APIs.
package testkit

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Stub pairs a URL prefix with the canned response it should produce.
type Stub struct {
	URLPrefix string
	Status    int
	Body      string
	calls     int
}

// MockTransport implements http.RoundTripper. It matches outgoing requests
// against registered stubs by URL prefix and returns synthetic responses
// instead of touching the network.
//
//	mt := testkit.NewMockTransport()
//	mt.Stub("https://api.razorpay.com", 200, `{"id":"order_x"}`)
//	httpclient.DefaultClient.Transport = mt
//	defer httpclient.ResetTransport()
type MockTransport struct {
	mu    sync.Mutex
	stubs []*Stub
}

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Stub registers a canned response for requests whose URL starts with prefix.
// Earlier stubs win when prefixes overlap.
func (mt *MockTransport) Stub(prefix string, status int, body string) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, &Stub{URLPrefix: prefix, Status: status, Body: body})
	return mt
}

// RoundTrip intercepts the outgoing request and returns the first matching
// stub, or an error if nothing matches.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, s := range mt.stubs {
		if !strings.HasPrefix(req.URL.String(), s.URLPrefix) {
			continue
		}
		s.calls++

		status := s.Status
		if status == 0 {
			status = http.StatusOK
		}
		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: status,
			Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(s.Body)),
			Request:    req,
		}, nil
	}

	return nil, fmt.Errorf("testkit: no stub for %s %s", req.Method, req.URL)
}

// Calls returns how many requests matched the stub with the given prefix.
func (mt *MockTransport) Calls(prefix string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	for _, s := range mt.stubs {
		if s.URLPrefix == prefix {
			return s.calls
		}
	}
	return 0
}
