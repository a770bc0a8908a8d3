package order

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"geo-order-go/asset"
	"geo-order-go/infrastructure/logger"
)

const (
	// SupportedProvider 当前唯一支持的数据提供方
	SupportedProvider = "oneatlas"
	// DefaultPollInterval TrackStatus 的默认轮询间隔
	DefaultPollInterval = 120 * time.Second
)

// Requester 发送带认证的请求；Endpoint 与 WorkspaceID 来自认证方。
type Requester interface {
	Endpoint() string
	WorkspaceID() string
	Request(ctx context.Context, method, url string, body any) (map[string]any, error)
}

// Info 订单详情，原样透传服务端的 data 字段。
type Info map[string]any

// Option 配置 Tracker
type Option func(*Tracker)

// WithLogger 注入日志器，默认不输出。
func WithLogger(l *logger.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// Recorder 订单指标上报，metrics.OrderRecorder 为 Prometheus 实现。
type Recorder interface {
	StatusChecked(status string)
	OrderPlaced(provider string)
	Terminal(status string)
}

type nopRecorder struct{}

func (nopRecorder) StatusChecked(string) {}
func (nopRecorder) OrderPlaced(string)   {}
func (nopRecorder) Terminal(string)      {}

// WithRecorder 注入指标上报，默认不上报。
func WithRecorder(r Recorder) Option {
	return func(t *Tracker) {
		if r != nil {
			t.metrics = r
		}
	}
}

// WithSleeper 替换轮询等待实现。
func WithSleeper(s Sleeper) Option {
	return func(t *Tracker) {
		if s != nil {
			t.sleeper = s
		}
	}
}

// WithStatusHook 每次拉取到状态后回调，可用于上报进程状态。
func WithStatusHook(fn func(Status)) Option {
	return func(t *Tracker) { t.onStatus = fn }
}

// Tracker 远端订单的只读视图，除 id 外不持有任何状态，每次调用都重新拉取。
type Tracker struct {
	req         Requester
	orderID     string
	workspaceID string
	log         *logger.Logger
	metrics     Recorder
	sleeper     Sleeper
	onStatus    func(Status)
}

// New 绑定已有订单 id，不发起请求。
func New(req Requester, orderID string, opts ...Option) *Tracker {
	t := &Tracker{
		req:         req,
		orderID:     orderID,
		workspaceID: req.WorkspaceID(),
		log:         logger.NewNop(),
		metrics:     nopRecorder{},
		sleeper:     NewTimerSleeper(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load 与 New 相同，但会立即拉取一次详情以确认订单存在。
func Load(ctx context.Context, req Requester, orderID string, opts ...Option) (*Tracker, error) {
	t := New(req, orderID, opts...)
	if _, err := t.Info(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tracker) ID() string          { return t.orderID }
func (t *Tracker) WorkspaceID() string { return t.workspaceID }

func (t *Tracker) orderURL() string {
	return fmt.Sprintf("%s/workspaces/%s/orders/%s", t.req.Endpoint(), t.workspaceID, t.orderID)
}

// Info 拉取订单详情。
func (t *Tracker) Info(ctx context.Context) (Info, error) {
	resp, err := t.req.Request(ctx, http.MethodGet, t.orderURL(), nil)
	if err != nil {
		return nil, err
	}
	data, err := dataPayload(resp)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", t.orderID, err)
	}
	return Info(data), nil
}

// Status 拉取并记录当前状态，不缓存。
func (t *Tracker) Status(ctx context.Context) (Status, error) {
	info, err := t.Info(ctx)
	if err != nil {
		return "", err
	}
	return t.statusOf(info)
}

func (t *Tracker) statusOf(info Info) (Status, error) {
	raw, ok := info["status"].(string)
	if !ok {
		return "", fmt.Errorf("order %s: info has no status field", t.orderID)
	}
	st := Status(raw)
	t.metrics.StatusChecked(raw)
	t.log.LogOrder("order_status", t.orderID, map[string]interface{}{"status": raw})
	if t.onStatus != nil {
		t.onStatus(st)
	}
	return st, nil
}

// IsFulfilled 当且仅当状态严格等于 FULFILLED。
func (t *Tracker) IsFulfilled(ctx context.Context) (bool, error) {
	st, err := t.Status(ctx)
	if err != nil {
		return false, err
	}
	return st == StatusFulfilled, nil
}

// Metadata 拉取订单元数据。
func (t *Tracker) Metadata(ctx context.Context) (map[string]any, error) {
	resp, err := t.req.Request(ctx, http.MethodGet, t.orderURL()+"/metadata", nil)
	if err != nil {
		return nil, err
	}
	data, err := dataPayload(resp)
	if err != nil {
		return nil, fmt.Errorf("order %s metadata: %w", t.orderID, err)
	}
	return data, nil
}

// Assets 返回交付物句柄，顺序与 info.assets 一致；订单未完成时返回 *InvalidStateError。
func (t *Tracker) Assets(ctx context.Context) ([]*asset.Asset, error) {
	info, err := t.Info(ctx)
	if err != nil {
		return nil, err
	}
	st, err := t.statusOf(info)
	if err != nil {
		return nil, err
	}
	if st != StatusFulfilled {
		return nil, &InvalidStateError{OrderID: t.orderID, Status: st}
	}
	raw, ok := info["assets"].([]any)
	if !ok {
		return nil, fmt.Errorf("order %s: info has no assets list", t.orderID)
	}
	assets := make([]*asset.Asset, 0, len(raw))
	for _, v := range raw {
		id, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("order %s: asset id %v is not a string", t.orderID, v)
		}
		assets = append(assets, asset.New(t.req, id))
	}
	return assets, nil
}

// Describe 拉取详情并格式化为一行摘要。
func (t *Tracker) Describe(ctx context.Context) (string, error) {
	info, err := t.Info(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Order(order_id: %s, assets: %v, dataProvider: %v, status: %v, createdAt: %v, updatedAt: %v)",
		t.orderID, info["assets"], info["dataProvider"], info["status"], info["createdAt"], info["updatedAt"],
	), nil
}

// Place 提交新订单并返回绑定新 id 的 Tracker。
// provider 不受支持时直接返回 *UnsupportedProviderError，不发出请求。
func Place(ctx context.Context, req Requester, provider string, params map[string]any, opts ...Option) (*Tracker, error) {
	if provider != SupportedProvider {
		return nil, &UnsupportedProviderError{Provider: provider}
	}
	payload := map[string]any{
		"dataProviderName": provider,
		"orderParams":      params,
	}
	url := fmt.Sprintf("%s/workspaces/%s/orders", req.Endpoint(), req.WorkspaceID())
	resp, err := req.Request(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, err
	}
	data, _ := resp["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		return nil, &PlacementError{Response: resp}
	}
	t := New(req, id, opts...)
	t.metrics.OrderPlaced(provider)
	st, err := t.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("order %s placed but status unavailable: %w", id, err)
	}
	t.log.LogOrder("order_placed", id, map[string]interface{}{
		"provider": provider,
		"status":   string(st),
	})
	return t, nil
}

// TrackStatus 轮询直到终态：FULFILLED 返回状态，FAILED/FAILED_PERMANENTLY 返回 *OrderFailedError。
// 没有总时长上限，调用方通过 ctx 取消。
func (t *Tracker) TrackStatus(ctx context.Context, interval time.Duration) (Status, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	t.log.LogOrder("order_tracking", t.orderID, map[string]interface{}{
		"interval": interval.String(),
	})

	var asleep time.Duration
	for {
		st, err := t.Status(ctx)
		if err != nil {
			return "", err
		}
		if st.IsFinal() {
			t.metrics.Terminal(string(st))
			if st.IsFailed() {
				t.log.LogOrder("order_failed", t.orderID, map[string]interface{}{"status": string(st)})
				return st, &OrderFailedError{OrderID: t.orderID, Status: st}
			}
			t.log.LogOrder("order_fulfilled", t.orderID, nil)
			return st, nil
		}
		// 每个等待周期记录一次
		if st.InProgress() && asleep != 0 && asleep%interval == 0 {
			t.log.LogOrder("order_progress", t.orderID, map[string]interface{}{
				"status": string(st),
				"waited": asleep.String(),
			})
		}

		if err := t.sleeper.Sleep(ctx, interval); err != nil {
			return st, err
		}
		asleep += interval
	}
}

func dataPayload(resp map[string]any) (map[string]any, error) {
	data, ok := resp["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response has no data payload")
	}
	return data, nil
}
