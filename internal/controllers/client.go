package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ClientController struct {
	client *http.Client
	logger *logrus.Logger

	apiKey string
}

func NewClientController(
	client *http.Client,
	apiKey string,
	logger *logrus.Logger,
) *ClientController {
	return &ClientController{
		client: client,
		apiKey: apiKey,
		logger: logger,
	}
}

const apiKeyHeader = "Ocp-Apim-Subscription-Key"

// StatusError is returned for any non 200 answer of the brokerage.
type StatusError struct {
	StatusCode int
	Code       Code   `json:"errorCode"`
	Msg        string `json:"message"`
	Body       []byte `json:"-"`
}

// Code accepts both quoted and bare JSON scalars, the brokerage is not
// consistent about it.
type Code string

func (c *Code) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*c = Code(s)
	return nil
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("statusCode %d; code %s; msg %s;", e.StatusCode, e.Code, e.Msg)
	}
	return fmt.Sprintf("statusCode %d; resp %s;", e.StatusCode, e.Body)
}

func (c *ClientController) Send(ctx context.Context, method string, url *url.URL, body []byte, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url.String(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Add(apiKeyHeader, c.apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, url.Path)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: out}
		if len(out) > 0 {
			// best effort, brokerage error bodies are not always JSON
			_ = json.Unmarshal(out, statusErr)
		}

		c.logger.
			WithField("method", method).
			WithField("path", url.Path).
			WithField("status", resp.StatusCode).
			Debug("brokerage answered with error status")

		return nil, statusErr
	}

	return out, nil
}
