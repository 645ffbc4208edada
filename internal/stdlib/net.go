package stdlib

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/rnumber"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// RegisterNet binds the `net` library: http_get and http_post, grounded
// on the teacher's network.NetworkModule.HTTPRequest but stripped to
// net/http (no third-party HTTP client appears in the pack).
func RegisterNet(reg *extern.Registry) {
	reg.Register("net", "http_get", netHTTPGet)
	reg.Register("net", "http_post", netHTTPPost)
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func doRequest(method, url string, body []byte, headers map[string]value.Value) (value.Value, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		return value.Nil, fmt.Errorf("http_%s: %w", strings.ToLower(method), err)
	}
	req.Header.Set("User-Agent", "Rossa/1.0")
	for k, v := range dictToStringMap(headers) {
		req.Header.Set(k, v)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return value.Nil, fmt.Errorf("http_%s: %w", strings.ToLower(method), err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return value.Nil, fmt.Errorf("http_%s: %w", strings.ToLower(method), err)
	}
	respHeaders := make(map[string]value.Value, len(resp.Header))
	for k, vs := range resp.Header {
		respHeaders[k] = value.Str(strings.Join(vs, ", "))
	}
	return value.NewDict(map[string]value.Value{
		"status":  value.Num(rnumber.Int(int64(resp.StatusCode))),
		"body":    value.Str(string(respBody)),
		"headers": value.NewDict(respHeaders),
	}), nil
}

func netHTTPGet(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	url, err := argString(args, 0, "http_get")
	if err != nil {
		return value.Nil, err
	}
	headers := argDict(args, 1)
	return doRequest(http.MethodGet, url, nil, headers)
}

func netHTTPPost(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	url, err := argString(args, 0, "http_post")
	if err != nil {
		return value.Nil, err
	}
	body, err := argString(args, 1, "http_post")
	if err != nil {
		return value.Nil, err
	}
	headers := argDict(args, 2)
	return doRequest(http.MethodPost, url, []byte(body), headers)
}
