package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"geo-order-go/metrics"
)

// RESTClient 携带 token 的订单 API 客户端；HTTPClient 可注入 httptest。
type RESTClient struct {
	BaseURL    string
	Token      string
	Workspace  string
	HTTPClient *http.Client
	Limiter    RateLimiter
}

// Endpoint 返回去掉末尾斜杠的 API 根地址。
func (c *RESTClient) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// WorkspaceID 返回当前 token 所属的 workspace。
func (c *RESTClient) WorkspaceID() string {
	return c.Workspace
}

// Request 发送一次带认证的请求，返回解码后的 JSON 对象。
// 非 2xx 响应返回 *RemoteError，不做重试。
func (c *RESTClient) Request(ctx context.Context, method, url string, body any) (map[string]any, error) {
	if c == nil || c.HTTPClient == nil {
		return nil, fmt.Errorf("http client not set")
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(method, 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	metrics.ObserveRequest(method, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &RemoteError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	out := map[string]any{}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// NewDefaultHTTPClient 提供一个带超时的 http.Client。
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
