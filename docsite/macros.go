package docsite

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPlotWidth  = 640
	DefaultPlotHeight = 480
)

// DefineEnv 注册文档站使用的宏：
//
//	{{ get_template "name" }}
//	{{ plot_template "name" }} / {{ plot_template "name" 800 600 }}
func DefineEnv(env *Env, catalog Catalog, plotter Plotter) {
	if plotter == nil {
		plotter = SinePlotter{}
	}

	env.Macro("get_template", func(name string) (string, error) {
		def, ok := catalog[name]
		if !ok {
			return "", fmt.Errorf("template %q not found", name)
		}
		out, err := yaml.Marshal(def)
		if err != nil {
			return "", fmt.Errorf("encode template %q: %w", name, err)
		}
		return strings.TrimRight(string(out), "\n"), nil
	})

	env.Macro("plot_template", func(name string, size ...int) (string, error) {
		width, height := DefaultPlotWidth, DefaultPlotHeight
		if len(size) > 0 {
			width = size[0]
		}
		if len(size) > 1 {
			height = size[1]
		}
		if len(size) > 2 {
			return "", fmt.Errorf("plot_template takes at most width and height")
		}
		png, err := plotter.Plot(width, height)
		if err != nil {
			return "", fmt.Errorf("plot %q: %w", name, err)
		}
		return imgTag(name, width, height, png), nil
	})
}

func imgTag(alt string, width, height int, png []byte) string {
	data := base64.StdEncoding.EncodeToString(png)
	return fmt.Sprintf("<img alt='%s' width='%d' height='%d' src='data:image/png;base64,%s'/>", html.EscapeString(alt), width, height, data)
}
