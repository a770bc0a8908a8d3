// Package docsite 为文档站提供模板宏：模板查询与内联绘图。
package docsite

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Env 宏环境：Variables 在模板中以 {{ .name }} 访问，宏以函数形式调用。
type Env struct {
	Variables map[string]any
	funcs     template.FuncMap
}

func NewEnv() *Env {
	return &Env{
		Variables: make(map[string]any),
		funcs:     make(template.FuncMap),
	}
}

// Macro 注册一个宏，fn 需满足 text/template 对函数的要求。
func (e *Env) Macro(name string, fn any) {
	e.funcs[name] = fn
}

// Macros 返回已注册的宏名
func (e *Env) Macros() []string {
	names := make([]string, 0, len(e.funcs))
	for k := range e.funcs {
		names = append(names, k)
	}
	return names
}

// Render 解析 src 并把结果写入 w。
func (e *Env) Render(w io.Writer, name, src string) error {
	tpl, err := template.New(name).Funcs(e.funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if err := tpl.Execute(w, e.Variables); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// Catalog 模板名到模板定义的映射。
type Catalog map[string]any

// LoadCatalog 从 YAML 文件读取模板目录。
func LoadCatalog(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat := Catalog{}
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return cat, nil
}
