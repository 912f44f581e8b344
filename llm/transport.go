package llm

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

const pingInterval = 15 * time.Second

// NewHTTPClient builds the process wide client. HTTP/2 connections are pinged
// when idle so a dead connection fails instead of hanging until timeout.
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	t1 := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// keep the proxy and dialer settings of t1 for h2
	t2, err := http2.ConfigureTransports(t1)
	if err != nil {
		return nil, err
	}
	t2.ReadIdleTimeout = pingInterval

	return &http.Client{
		Transport: t1,
		Timeout:   timeout,
	}, nil
}
