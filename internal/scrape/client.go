package scrape

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "gradpulse-engine/1.0 (+https://github.com/gradpulse/engine)"

// NewClient builds the HTTP client used for page fetches: short
// timeout, polite UA, and automatic retries with backoff on transport
// errors and 5xx responses.
func NewClient(userAgent string, timeout time.Duration) *resty.Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(3).
		SetRetryWaitTime(300 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
}
