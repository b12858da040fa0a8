// Package restsvc is the JSON transport every resource cache talks through.
package restsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/resource"
)

type Client struct {
	baseURL string
	rc      *rest.Client
	log     core.Logger
	now     func() time.Time
}

var _ resource.Transport = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: conf.Client.BaseURL,
		rc:      &rest.Client{HTTPClient: &http.Client{Timeout: conf.Client.Timeout}},
		log:     logger,
		now:     time.Now,
	}
}

// Do sends one request and logs it on start and on completion.
func (c *Client) Do(ctx context.Context, method, path string, in, out interface{}) error {
	req := rest.Request{
		Method:  rest.Method(method),
		BaseURL: c.baseURL + "/" + strings.TrimLeft(path, "/"),
		Headers: map[string]string{"Accept": "application/json"},
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}

	tag := fmt.Sprintf("[%s] %s", method, req.BaseURL)
	c.log.Info(tag)
	start := c.now()

	res, err := c.rc.SendWithContext(ctx, req)
	elapsed := c.now().Sub(start).Milliseconds()
	if err != nil {
		c.log.Error(fmt.Sprintf("%s ✗ 0 (%dms)", tag, elapsed), err)
		return errors.Wrap(err, tag)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		serr := &core.StatusError{Method: method, URL: req.BaseURL, Code: res.StatusCode, Message: message(res.Body)}
		c.log.Error(fmt.Sprintf("%s ✗ %d (%dms)", tag, res.StatusCode, elapsed), serr)
		return responseError(serr, res.Body)
	}
	c.log.Info(fmt.Sprintf("%s ✓ %dms", tag, elapsed))

	if out == nil || strings.TrimSpace(res.Body) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Body), out); err != nil {
		return errors.Wrapf(err, "%s: decoding response", tag)
	}
	return nil
}

// message extracts `{"error": "..."}` bodies, otherwise the raw body is kept.
func message(body string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(body)
}

// responseError turns a `{field: message}` 400 body into a ValidationError wrapping serr.
func responseError(serr *core.StatusError, body string) error {
	if serr.Code != http.StatusBadRequest {
		return serr
	}
	var fields map[string]string
	if err := json.Unmarshal([]byte(body), &fields); err != nil || len(fields) == 0 {
		return serr
	}
	if _, ok := fields["error"]; ok && len(fields) == 1 {
		return serr
	}
	flds := make([]core.FieldError, 0, len(fields))
	for f, msg := range fields {
		flds = append(flds, core.FieldError{Field: f, Error: msg})
	}
	return core.NewValidationError(serr, flds...)
}
