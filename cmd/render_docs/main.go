package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"geo-order-go/docsite"
	"geo-order-go/infrastructure/logger"
)

func main() {
	in := flag.String("in", "", "markdown 源文件")
	out := flag.String("out", "", "输出文件，留空则写 stdout")
	catalogPath := flag.String("catalog", "configs/templates.yaml", "模板目录（YAML）")
	watch := flag.Bool("watch", false, "源文件或模板目录变化时重新渲染")
	flag.Parse()

	if *in == "" {
		log.Fatalf("-in is required")
	}
	lg, err := logger.New(logger.DefaultConfig())
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	if err := render(*in, *out, *catalogPath); err != nil {
		log.Fatalf("渲染失败: %v", err)
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	lg.Info("watching for changes", zap.String("in", *in), zap.String("catalog", *catalogPath))
	err = docsite.Watch(ctx, []string{*in, *catalogPath}, func(path string) {
		if err := render(*in, *out, *catalogPath); err != nil {
			lg.LogError(err, map[string]interface{}{"changed": path})
			return
		}
		lg.Info("re-rendered", zap.String("changed", path))
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("watch: %v", err)
	}
}

// render 每次重新加载模板目录，保证宏看到最新内容。
func render(in, out, catalogPath string) error {
	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	catalog, err := docsite.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}
	env := docsite.NewEnv()
	docsite.DefineEnv(env, catalog, nil)

	var buf bytes.Buffer
	if err := env.Render(&buf, in, string(src)); err != nil {
		return err
	}
	if out == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(out, buf.Bytes(), 0o644)
}
