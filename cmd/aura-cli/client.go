package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 60 * time.Second

var (
	serverURL      string
	requestTimeout time.Duration
	apiClient      *client
)

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type client struct {
	http *resty.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
	}
}

// do sends a request and pretty-prints the JSON answer to stdout.
func (c *client) do(method, path string, body any, query map[string]string) error {
	req := c.http.R().SetError(&apiError{})
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Error.Message != "" {
			return fmt.Errorf("%s (%s, HTTP %d)", apiErr.Error.Message, apiErr.Error.Type, resp.StatusCode())
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	return printJSON(resp.Body())
}

// upload sends raw bytes with the given content type.
func (c *client) upload(path, contentType string, data []byte) error {
	resp, err := c.http.R().
		SetError(&apiError{}).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put(path)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	fmt.Println("frame accepted")
	return nil
}

func printJSON(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		_, werr := os.Stdout.Write(raw)
		return werr
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(os.Stdout)
	return err
}
