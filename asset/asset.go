// Package asset 提供订单交付物的句柄，构造时不访问网络。
package asset

import (
	"context"
	"fmt"
	"net/http"
)

// Requester 发送带认证的请求。
type Requester interface {
	Endpoint() string
	WorkspaceID() string
	Request(ctx context.Context, method, url string, body any) (map[string]any, error)
}

// Asset 一个已交付的数据单元。
type Asset struct {
	ID          string
	WorkspaceID string
	req         Requester
}

// New 仅构造句柄，不拉取远端信息。
func New(req Requester, id string) *Asset {
	return &Asset{ID: id, WorkspaceID: req.WorkspaceID(), req: req}
}

// Info 拉取资产详情，返回 data 部分。
func (a *Asset) Info(ctx context.Context) (map[string]any, error) {
	url := fmt.Sprintf("%s/workspaces/%s/assets/%s", a.req.Endpoint(), a.WorkspaceID, a.ID)
	resp, err := a.req.Request(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("asset %s: response has no data payload", a.ID)
	}
	return data, nil
}

func (a *Asset) String() string {
	return fmt.Sprintf("Asset(asset_id: %s)", a.ID)
}
