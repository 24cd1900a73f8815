package api

import (
	"bytes"
	"io"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
)

// MockHttpClient stands in for the tls-client transport. Only Do and
// CloseIdleConnections are used by GeminiClient; any other method panics
// through the nil embedded interface.
type MockHttpClient struct {
	tls_client.HttpClient

	Response    *fhttp.Response
	Err         error
	LastRequest *fhttp.Request
	LastBody    string
	Calls       int
	IdleClosed  int
}

// Do records the request and returns the scripted response
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Calls++
	m.LastRequest = req
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.LastBody = string(data)
	}
	return m.Response, m.Err
}

func (m *MockHttpClient) CloseIdleConnections() {
	m.IdleClosed++
}

// NewMockHttpClient answers every request with body and statusCode
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       io.NopCloser(bytes.NewReader(body)),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHttpClientWithError fails every request with err
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}
