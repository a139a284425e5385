package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ditto-go/internal/shared"
)

// AdminClient talks to the gateway's admin surface. The token it carries
// is an admin token, not a virtual key.
type AdminClient struct {
	*Client
}

func NewAdmin(baseURL, token string) *AdminClient {
	return &AdminClient{Client: New(baseURL, token)}
}

type KeysQuery struct {
	IncludeTokens bool
	Enabled       *bool
	IDPrefix      string
}

func (a *AdminClient) Keys(ctx context.Context, q KeysQuery) ([]byte, error) {
	params := url.Values{}
	if q.IncludeTokens {
		params.Set("include_tokens", "true")
	}
	if q.Enabled != nil {
		params.Set("enabled", strconv.FormatBool(*q.Enabled))
	}
	if q.IDPrefix != "" {
		params.Set("id_prefix", q.IDPrefix)
	}
	route := shared.RouteAdminKeys
	if len(params) > 0 {
		route += "?" + params.Encode()
	}
	return a.do(ctx, http.MethodGet, route, nil)
}

func (a *AdminClient) UpsertKey(ctx context.Context, key shared.VirtualKey) ([]byte, error) {
	return a.do(ctx, http.MethodPost, shared.RouteAdminKeys, key)
}

func (a *AdminClient) DeleteKey(ctx context.Context, id string) ([]byte, error) {
	return a.do(ctx, http.MethodDelete, shared.RouteAdminKeys+"/"+url.PathEscape(id), nil)
}

type AuditQuery struct {
	Limit   int
	SinceMS int64
}

func (a *AdminClient) Audit(ctx context.Context, q AuditQuery) ([]byte, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SinceMS > 0 {
		params.Set("since_ts_ms", strconv.FormatInt(q.SinceMS, 10))
	}
	route := shared.RouteAdminAudit
	if len(params) > 0 {
		route += "?" + params.Encode()
	}
	return a.do(ctx, http.MethodGet, route, nil)
}

func (a *AdminClient) Usage(ctx context.Context) ([]byte, error) {
	return a.do(ctx, http.MethodGet, shared.RouteAdminUsage, nil)
}
