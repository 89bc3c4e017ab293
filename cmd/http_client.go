package main

import (
	"net/http"
	"time"
)

func (a *App) initHTTPClient() {
	// per call deadlines come from the caller's context
	a.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
