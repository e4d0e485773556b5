package main

import (
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv("TEMPERATURE_"+k, v)
	}
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func TestRun_InvalidConfigReturnsError(t *testing.T) {
	setEnv(t, map[string]string{"PLATFORM_DRIVER": "mongo"})

	err := run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}

func TestRun_GatewayWithoutKeyReturnsError(t *testing.T) {
	setEnv(t, map[string]string{"EXPOSE_GATEWAY": "true", "GATEWAY_API_KEY": ""})

	err := run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "GATEWAY_API_KEY") {
		t.Fatalf("expected gateway key error, got %v", err)
	}
}

func TestRun_StopsWhenContextIsCancelled(t *testing.T) {
	setEnv(t, map[string]string{
		"PLATFORM_DRIVER": "memory",
		"HTTP_PORT":       freePort(t),
		"EXPOSE_GATEWAY":  "false",
		"AMQP_URL":        "",
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}
