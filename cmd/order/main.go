package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"geo-order-go/config"
	"geo-order-go/gateway"
	"geo-order-go/infrastructure/logger"
	"geo-order-go/metrics"
	"geo-order-go/order"
)

const usage = `usage: order <command> [flags]

commands:
  info      打印订单详情
  status    打印订单状态
  metadata  打印订单元数据
  assets    列出交付物（仅 FULFILLED）
  place     提交新订单
  track     轮询直到终态
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("order: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	cfgPath := fs.String("config", "configs/config.yaml", "配置文件路径")
	orderID := fs.String("id", "", "订单 id")
	provider := fs.String("provider", "", "数据提供方，默认取配置")
	paramsPath := fs.String("params", "", "下单参数文件（YAML 或 JSON）")
	interval := fs.Duration("interval", 0, "track 轮询间隔，默认取配置")
	track := fs.Bool("track", false, "place 后继续轮询直到终态")
	metricsAddr := fs.String("metricsAddr", "", "Prometheus metrics 监听地址，默认取配置，留空则关闭")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	lg, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer lg.Close()

	addr := cfg.Metrics.Addr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}
	if srv := metrics.StartMetricsServer(addr); srv != nil {
		defer srv.Close()
	}

	client := gateway.BuildRESTClient(cfg.Gateway, nil)
	opts := []order.Option{order.WithLogger(lg), order.WithRecorder(metrics.OrderRecorder{})}

	pollEvery := cfg.Order.PollInterval()
	if *interval > 0 {
		pollEvery = *interval
	}

	needID := func() (*order.Tracker, error) {
		if *orderID == "" {
			return nil, errors.New("-id is required")
		}
		return order.New(client, *orderID, opts...), nil
	}

	switch cmd {
	case "info":
		tr, err := needID()
		if err != nil {
			return err
		}
		info, err := tr.Info(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, info)
	case "status":
		tr, err := needID()
		if err != nil {
			return err
		}
		st, err := tr.Status(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, st)
		return err
	case "metadata":
		tr, err := needID()
		if err != nil {
			return err
		}
		md, err := tr.Metadata(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, md)
	case "assets":
		tr, err := needID()
		if err != nil {
			return err
		}
		assets, err := tr.Assets(ctx)
		if err != nil {
			return err
		}
		for _, a := range assets {
			if _, err := fmt.Fprintln(out, a.ID); err != nil {
				return err
			}
		}
		return nil
	case "place":
		if *paramsPath == "" {
			return errors.New("-params is required")
		}
		params, err := readParams(*paramsPath)
		if err != nil {
			return err
		}
		p := cfg.Order.Provider
		if *provider != "" {
			p = *provider
		}
		tr, err := order.Place(ctx, client, p, params, opts...)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, tr.ID()); err != nil {
			return err
		}
		if !*track {
			return nil
		}
		return trackOrder(ctx, tr.ID(), client, lg, *cfgPath, pollEvery, out)
	case "track":
		if *orderID == "" {
			return errors.New("-id is required")
		}
		return trackOrder(ctx, *orderID, client, lg, *cfgPath, pollEvery, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// trackOrder 阻塞轮询；运行在 systemd 下时上报 READY/STATUS，配置变更时热更新日志级别。
func trackOrder(ctx context.Context, id string, client order.Requester, lg *logger.Logger,
	cfgPath string, every time.Duration, out io.Writer) error {
	olg := lg.WithFields(map[string]interface{}{"order_id": id})

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	w := config.Watcher{
		Path: cfgPath,
		OnError: func(err error) {
			olg.LogError(err, map[string]interface{}{"config": cfgPath})
		},
	}
	go func() {
		_ = w.Start(watchCtx, func(next config.AppConfig) {
			reloadLevel(olg, next.Logging.Level)
		})
	}()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	defer daemon.SdNotify(false, daemon.SdNotifyStopping)

	tr := order.New(client, id,
		order.WithLogger(lg),
		order.WithRecorder(metrics.OrderRecorder{}),
		order.WithStatusHook(func(st order.Status) {
			_, _ = daemon.SdNotify(false, fmt.Sprintf("STATUS=order %s is %s", id, st))
		}),
	)
	st, err := tr.TrackStatus(ctx, every)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, st)
	return err
}

// reloadLevel 与当前生效级别比较，而不是启动时的配置。
func reloadLevel(lg *logger.Logger, level string) {
	if level == "" || level == lg.Level().String() {
		return
	}
	if err := lg.SetLevel(level); err != nil {
		lg.LogError(err, nil)
		return
	}
	lg.Info("log level reloaded", zap.String("level", level))
}

func readParams(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}
	params := map[string]any{}
	if err := yaml.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("parse params: %w", err)
	}
	return params, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
