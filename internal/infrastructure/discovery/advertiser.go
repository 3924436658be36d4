// Package discovery 局域网 mDNS 服务广播与发现
package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

const (
	// ServiceType mDNS 服务类型
	ServiceType = "_rag-assistant._tcp"
	// Domain mDNS 域
	Domain = "local."
)

// Advertiser 广播本机 HTTP 服务
type Advertiser struct {
	mu       sync.Mutex
	enabled  bool
	instance string
	addr     string
	version  string
	server   *zeroconf.Server
	logger   *slog.Logger
}

// NewAdvertiser 创建广播器，未启用时 Start 为空操作
func NewAdvertiser(cfg *config.DiscoveryConfig, server *config.ServerConfig) *Advertiser {
	return &Advertiser{
		enabled:  cfg.Enabled,
		instance: cfg.Instance,
		addr:     server.HTTPPort,
		version:  "0.1.0",
		logger:   log.NewModuleLogger("discovery", "advertiser"),
	}
}

// TxtRecords 广播的 TXT 记录
func (a *Advertiser) TxtRecords() []string {
	return []string{
		"version=" + a.version,
		"api=/api/v1",
		"mcp=/mcp/sse",
	}
}

// Start 开始广播
func (a *Advertiser) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.enabled || a.server != nil {
		return nil
	}

	port, err := portOf(a.addr)
	if err != nil {
		return err
	}

	server, err := zeroconf.Register(a.instance, ServiceType, Domain, port, a.TxtRecords(), nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	a.server = server

	a.logger.Info("mDNS advertiser started",
		"instance", a.instance,
		"service", ServiceType,
		"port", port,
	)
	return nil
}

// Stop 停止广播
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
	a.logger.Info("mDNS advertiser stopped")
}

// Running 是否正在广播
func (a *Advertiser) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.server != nil
}

func portOf(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid listen port %q", p)
	}
	return port, nil
}
