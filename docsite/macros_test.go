package docsite

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var imgRe = regexp.MustCompile(`^<img alt='([^']*)' width='(\d+)' height='(\d+)' src='data:image/png;base64,([A-Za-z0-9+/=]+)'/>$`)

type stubPlotter struct {
	w, h int
	err  error
}

func (s *stubPlotter) Plot(width, height int) ([]byte, error) {
	s.w, s.h = width, height
	return []byte("png"), s.err
}

func newTestEnv(p Plotter) *Env {
	env := NewEnv()
	DefineEnv(env, Catalog{
		"sharpening": map[string]any{"blocks": []any{"data", "sharpen"}},
	}, p)
	return env
}

func render(t *testing.T, env *Env, src string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := env.Render(&buf, "page.md", src)
	return buf.String(), err
}

func TestGetTemplate(t *testing.T) {
	out, err := render(t, newTestEnv(nil), `{{ get_template "sharpening" }}`)
	require.NoError(t, err)
	assert.Equal(t, "blocks:\n    - data\n    - sharpen", out)
}

func TestGetTemplateMissing(t *testing.T) {
	_, err := render(t, newTestEnv(nil), `{{ get_template "nope" }}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `template "nope" not found`)
}

func TestPlotTemplateDefaults(t *testing.T) {
	p := &stubPlotter{}
	out, err := render(t, newTestEnv(p), `{{ plot_template "sharpening" }}`)
	require.NoError(t, err)
	assert.Equal(t, 640, p.w)
	assert.Equal(t, 480, p.h)
	want := "<img alt='sharpening' width='640' height='480' src='data:image/png;base64," +
		base64.StdEncoding.EncodeToString([]byte("png")) + "'/>"
	assert.Equal(t, want, out)
}

func TestPlotTemplateSize(t *testing.T) {
	p := &stubPlotter{}
	out, err := render(t, newTestEnv(p), `{{ plot_template "x" 800 }}|{{ plot_template "y" 320 200 }}`)
	require.NoError(t, err)
	parts := strings.Split(out, "|")
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "width='800' height='480'")
	assert.Contains(t, parts[1], "width='320' height='200'")

	_, err = render(t, newTestEnv(p), `{{ plot_template "x" 1 2 3 }}`)
	assert.Error(t, err)
}

func TestPlotTemplateEscapesAlt(t *testing.T) {
	out, err := render(t, newTestEnv(&stubPlotter{}), `{{ plot_template "it's <b>" }}`)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<img alt='it&#39;s &lt;b&gt;' width='640'"), out)
	assert.Equal(t, 1, strings.Count(out, "alt='"))
}

func TestPlotTemplatePlotterError(t *testing.T) {
	_, err := render(t, newTestEnv(&stubPlotter{err: errors.New("boom")}), `{{ plot_template "x" }}`)
	assert.Error(t, err)
}

func TestSinePlotterPNG(t *testing.T) {
	out, err := render(t, newTestEnv(nil), `{{ plot_template "sharpening" 200 100 }}`)
	require.NoError(t, err)
	m := imgRe.FindStringSubmatch(out)
	require.NotNil(t, m, "unexpected img tag %q", out)

	raw, err := base64.StdEncoding.DecodeString(m[4])
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	_, err = SinePlotter{}.Plot(4, 4)
	assert.Error(t, err)
}

func TestVariablesAndCustomMacro(t *testing.T) {
	env := NewEnv()
	env.Variables["baz"] = "John Doe"
	env.Macro("bar", func(x int) int { return x*x + 1 })

	out, err := render(t, env, `{{ .baz }} {{ bar 3 }}`)
	require.NoError(t, err)
	assert.Equal(t, "John Doe 10", out)
	assert.ElementsMatch(t, []string{"bar"}, env.Macros())

	_, err = render(t, env, `{{ .missing }}`)
	assert.Error(t, err)
	_, err = render(t, env, `{{ unknown }}`)
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ndvi:\n  blocks: [data, ndvi]\n"), 0o644))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Contains(t, cat, "ndvi")

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	changed := make(chan string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = Watch(ctx, []string{path}, func(p string) {
			select {
			case changed <- p:
			default:
			}
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	select {
	case p := <-changed:
		assert.Equal(t, filepath.Clean(path), p)
	case <-time.After(3 * time.Second):
		t.Fatalf("watch did not report change")
	}
}
