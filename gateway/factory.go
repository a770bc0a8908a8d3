package gateway

import (
	"net/http"
	"time"

	"geo-order-go/config"
)

// BuildRESTClient 根据配置构建 REST 客户端（不发起连接）。
// 调用方可传入自定义 http.Client（带代理/超时），否则使用默认。
func BuildRESTClient(cfg config.GatewayConfig, httpCli *http.Client) *RESTClient {
	if httpCli == nil {
		httpCli = NewDefaultHTTPClient()
		if cfg.TimeoutSeconds > 0 {
			httpCli.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
	}
	cli := &RESTClient{
		BaseURL:    cfg.BaseURL,
		Token:      cfg.Token,
		Workspace:  cfg.WorkspaceID,
		HTTPClient: httpCli,
	}
	if cfg.RateLimit > 0 {
		cli.Limiter = NewTokenBucketLimiter(cfg.RateLimit, cfg.RateBurst)
	}
	return cli
}
