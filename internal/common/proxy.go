package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

const (
	OK                    int = 200
	BAD_REQUEST           int = 400
	UNAUTHORIZED          int = 401
	FORBIDDEN             int = 403
	DATA_NOT_FOUND        int = 404
	RATE_LIMIT_EXCEEDED   int = 429
	INTERNAL_SERVER_ERROR int = 500
	BAD_GATEWAY           int = 502
	SERVICE_UNAVAILABLE   int = 503
	GATEWAY_TIMEOUT       int = 504
)

var messages = map[int]string{
	OK:                    "OK",
	BAD_REQUEST:           "Bad request",
	UNAUTHORIZED:          "Unauthorized",
	FORBIDDEN:             "Forbidden",
	DATA_NOT_FOUND:        "Data not found",
	RATE_LIMIT_EXCEEDED:   "Rate limit exceeded",
	INTERNAL_SERVER_ERROR: "Internal server error",
	BAD_GATEWAY:           "Bad gateway",
	SERVICE_UNAVAILABLE:   "Service unavailable",
	GATEWAY_TIMEOUT:       "Gateway timeout",
}

type Proxy struct {
	header map[string]string
	client http.Client
	retry  RetryPolicy
}

func NewProxy(header map[string]string, timeout time.Duration, retry RetryPolicy) Proxy {
	return Proxy{header, http.Client{Timeout: timeout}, retry}
}

// Make a GET request to the provided url and return the body of the response.
// Transient failures are retried following the retry policy of the proxy
func (proxy *Proxy) Request(ctx context.Context, url string) ([]byte, error) {

	var body []byte
	err := Retry(ctx, proxy.retry, fmt.Sprintf("request %s", url), func() error {
		var err error
		body, err = proxy.request(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (proxy *Proxy) request(ctx context.Context, url string) ([]byte, error) {

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create request for url %s", url)
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	res, err := proxy.client.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Transient(errors.Wrapf(err, "could not perform request to %s", url))
	}
	defer res.Body.Close()

	message, ok := messages[res.StatusCode]
	if !ok {
		message = http.StatusText(res.StatusCode)
	}
	log.Debug().Msg(fmt.Sprintf("%d %s", res.StatusCode, message))

	if res.StatusCode != OK {
		return nil, StatusError(res.StatusCode, errors.Newf("request to %s answered %d %s", url, res.StatusCode, message))
	}

	// Read the response
	stream, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, Transient(errors.Wrapf(err, "could not read the response for url %s", url))
	}
	return stream, nil
}
