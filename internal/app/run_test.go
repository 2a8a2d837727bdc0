package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortly/internal/config"
)

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

func TestRun_MemoryStorage(t *testing.T) {
	cfg := &config.Config{
		Env:        config.EnvDev,
		ShortCode:  config.ShortCode{Prefix: "short.ly/"},
		Storage:    config.Storage{Driver: config.DriverMemory},
		HTTPServer: config.HTTPServer{Port: freePort(t)},
		Log:        config.Log{Level: "error"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, cfg)
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.HTTPServer.Port)

	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/api/v1/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	e := httpexpect.Default(t, baseURL)

	e.POST("/api/v1/shorten").
		WithJSON(map[string]string{"url": "https://example.com"}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object().
		HasValue("short_code", "short.ly/EAaArVRs")

	e.GET("/{shortCode}", "EAaArVRs").
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("https://example.com")

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
