package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/robohub/pkg/config"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: cfgFile})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_Check(t *testing.T) {
	t.Setenv("CRON_SECRET", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("MARKET_API_KEY", "")
	t.Setenv("DATABASE_DSN", "")

	t.Run("missing credentials", func(t *testing.T) {
		var buf bytes.Buffer
		stdout = &buf
		defer func() { stdout = os.Stdout }()

		err := run(context.Background(), Opts{Check: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "3 required setting(s) missing")
		assert.Contains(t, buf.String(), "[ok]      database.dsn")
		assert.Contains(t, buf.String(), "[missing] llm.api_key")
		assert.Contains(t, buf.String(), "[missing] server.cron_secret")
	})

	t.Run("credentials from env", func(t *testing.T) {
		t.Setenv("CRON_SECRET", "cron-secret")
		t.Setenv("LLM_API_KEY", "llm-key")
		t.Setenv("MARKET_API_KEY", "market-key")

		var buf bytes.Buffer
		stdout = &buf
		defer func() { stdout = os.Stdout }()

		err := run(context.Background(), Opts{Check: true})
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "[missing]")
	})
}

func TestRun_ServerStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	port := freePort(t)

	cfgFile := filepath.Join(tmpDir, "config.yml")
	cfgData := fmt.Sprintf(`
server:
  listen: "127.0.0.1:%d"
  timeout: 5s
database:
  dsn: "file:%s?mode=rwc&_txlock=immediate"
batch:
  interval: 0s
`, port, filepath.Join(tmpDir, "robohub.db"))
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfgData), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- run(ctx, Opts{Config: cfgFile})
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get(url + "/api/news")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"articles":[],"total":0}`, string(body))

	cancel()

	select {
	case err := <-serverErr:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestLoadFallbacks(t *testing.T) {
	dir := t.TempDir()
	fallbackFile := filepath.Join(dir, "robot-report.xml")
	require.NoError(t, os.WriteFile(fallbackFile, []byte("<rss></rss>"), 0o600))

	t.Run("reads files", func(t *testing.T) {
		res, err := loadFallbacks(map[string]string{"https://www.therobotreport.com/feed/": fallbackFile})
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"https://www.therobotreport.com/feed/": []byte("<rss></rss>")}, res)
	})

	t.Run("empty", func(t *testing.T) {
		res, err := loadFallbacks(nil)
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadFallbacks(map[string]string{"https://example.com/feed": filepath.Join(dir, "nope.xml")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "https://example.com/feed")
	})
}

func TestReportChecks(t *testing.T) {
	var buf bytes.Buffer
	err := reportChecks(&buf, []config.Check{
		{Key: "a.key", OK: true, Message: "first"},
		{Key: "b.key", OK: false, Message: "second"},
	})
	require.Error(t, err)
	assert.Equal(t, "[ok]      a.key\n[missing] b.key: second\n", buf.String())

	buf.Reset()
	require.NoError(t, reportChecks(&buf, []config.Check{{Key: "a.key", OK: true}}))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"newArticles": 2}))
	assert.JSONEq(t, `{"newArticles":2}`, buf.String())
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true, false)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false, false)
	})

	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, false, "secret1", "secret2")
	})

	t.Run("no color mode", func(t *testing.T) {
		setupLog(false, true)
	})
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
