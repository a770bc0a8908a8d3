package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 基于 fsnotify 监听配置文件，变化后重新加载并回调。
// 监听所在目录而非文件本身，编辑器 rename 覆盖保存时也能收到事件。
type Watcher struct {
	Path     string
	Cooldown time.Duration // 冷却时间，避免一次保存触发多次重载
	OnError  func(error)   // 加载失败或 watcher 错误，可为空
}

// Start 阻塞直到 ctx 取消；回调收到的是已通过校验的配置。
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig)) error {
	if w.Cooldown <= 0 {
		w.Cooldown = 500 * time.Millisecond
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(w.Path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch config dir: %w", err)
	}

	var lastReload time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// 只处理写入和创建事件
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastReload) < w.Cooldown {
				continue
			}
			cfg, err := LoadWithEnvOverrides(w.Path)
			if err != nil {
				w.report(err)
				continue
			}
			lastReload = time.Now()
			if onUpdate != nil {
				onUpdate(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.report(err)
		}
	}
}

func (w Watcher) report(err error) {
	if w.OnError != nil {
		w.OnError(err)
	}
}
