package social

import (
	"time"

	"github.com/go-resty/resty/v2"
)

func newRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}
