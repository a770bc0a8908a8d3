// Package metrics provides Prometheus metrics for the order client
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequests REST 请求计数，按方法与状态码区分
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_api_requests_total",
		Help: "REST requests sent to the ordering API",
	}, []string{"method", "code"})

	// APIRequestDuration REST 请求耗时
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geo_api_request_duration_seconds",
		Help:    "REST request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// StatusChecks 每次拉取订单状态计数
	StatusChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_order_status_checks_total",
		Help: "Order status fetches by observed status",
	}, []string{"status"})

	// OrdersPlaced 下单成功计数
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_orders_placed_total",
		Help: "Orders placed by data provider",
	}, []string{"provider"})

	// OrdersTerminal 跟踪结束时的终态计数
	OrdersTerminal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_orders_terminal_total",
		Help: "Tracked orders reaching a terminal status",
	}, []string{"status"})
)

// ObserveRequest 记录一次 REST 调用；code 为 0 表示传输层错误。
func ObserveRequest(method string, code int, d time.Duration) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	APIRequests.WithLabelValues(method, label).Inc()
	APIRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// OrderRecorder 把订单事件写入上面的全局 collector，注入给 order.Tracker 使用。
type OrderRecorder struct{}

func (OrderRecorder) StatusChecked(status string) {
	StatusChecks.WithLabelValues(status).Inc()
}

func (OrderRecorder) OrderPlaced(provider string) {
	OrdersPlaced.WithLabelValues(provider).Inc()
}

func (OrderRecorder) Terminal(status string) {
	OrdersTerminal.WithLabelValues(status).Inc()
}

// NewRouter 暴露 /metrics 与 /healthz
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// StartMetricsServer 启动Prometheus指标服务器，addr 为空时不启动
func StartMetricsServer(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
