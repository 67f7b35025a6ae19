// Package jarcli is a JSON-RPC client for the warpjar daemon.
package jarcli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
)

const defaultTimeout = 30 * time.Second

// Client talks to a warpjar daemon over its HTTP JSON-RPC endpoint.
type Client struct {
	rpc *jrpc2.Client
}

// bearerTransport adds the daemon secret to every request.
type bearerTransport struct {
	secret string
	base   *http.Client
}

func (b *bearerTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+b.secret)
	return b.base.Do(req)
}

// NewClient returns a client for the daemon at url (for example
// http://127.0.0.1:3849/jsonrpc) authenticating with secret.
func NewClient(url, secret string) *Client {
	ch := jhttp.NewChannel(url, &jhttp.ChannelOptions{
		Client: &bearerTransport{
			secret: secret,
			base:   &http.Client{Timeout: defaultTimeout},
		},
	})
	return &Client{rpc: jrpc2.NewClient(ch, nil)}
}

// Close releases the underlying channel.
func (c *Client) Close() error {
	return c.rpc.Close()
}

func invoke[T any](ctx context.Context, c *Client, method string, params any) (*T, error) {
	var out T
	if err := c.rpc.CallResult(ctx, method, params, &out); err != nil {
		return nil, fmt.Errorf("error: %s: %w", method, err)
	}
	return &out, nil
}
