package retrieval

import (
	"context"
	"sync"

	domain "github.com/rag-assistant/backend/internal/domain/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
)

// SwitchableProvider 允许运行时替换底层 provider
// 正在进行的调用继续使用替换前的实例
type SwitchableProvider struct {
	mu      sync.RWMutex
	current domain.Provider
	mode    string
}

// Mode 标识当前使用的实现
const (
	ModeMock   = "mock"
	ModeRemote = "remote"
)

// NewSwitchableProvider 按静态配置创建，再应用已保存的运行时覆盖
func NewSwitchableProvider(cfg *config.ProviderConfig, settings *SettingsStore) (*SwitchableProvider, error) {
	p := &SwitchableProvider{}
	endpoint, credential := cfg.Endpoint, cfg.Credential

	saved, ok, err := settings.Load()
	if err != nil {
		return nil, err
	}
	if ok {
		endpoint, credential = saved.Endpoint, saved.Credential
	}

	p.Apply(cfg, endpoint, credential)
	return p, nil
}

// Apply 根据 endpoint 选择实现，为空时使用模拟实现
func (p *SwitchableProvider) Apply(cfg *config.ProviderConfig, endpoint, credential string) {
	var next domain.Provider
	mode := ModeMock
	if endpoint == "" {
		next = NewMockProvider(cfg.FragmentInterval)
	} else {
		next = NewRemoteProvider(endpoint, credential, cfg.Timeout)
		mode = ModeRemote
	}

	p.mu.Lock()
	p.current = next
	p.mode = mode
	p.mu.Unlock()
}

// Mode 当前模式
func (p *SwitchableProvider) Mode() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

func (p *SwitchableProvider) provider() domain.Provider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Query 实现 Provider
func (p *SwitchableProvider) Query(ctx context.Context, req *domain.QueryRequest) (*domain.Answer, error) {
	return p.provider().Query(ctx, req)
}

// Stream 实现 Provider
func (p *SwitchableProvider) Stream(ctx context.Context, req *domain.QueryRequest) (domain.FragmentStream, error) {
	return p.provider().Stream(ctx, req)
}
