// Package settings 运行时 provider 配置
package settings

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/rag-assistant/backend/internal/domain/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
	infraRetrieval "github.com/rag-assistant/backend/internal/infrastructure/retrieval"
)

// View 对外展示的 provider 配置，凭据已脱敏
type View struct {
	Mode          string     `json:"mode"`
	Endpoint      string     `json:"endpoint"`
	Credential    string     `json:"credential"`
	HasCredential bool       `json:"has_credential"`
	Overridden    bool       `json:"overridden"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// UpdateRequest 更新请求，Endpoint 为空表示清除覆盖
type UpdateRequest struct {
	Endpoint   string `json:"endpoint"`
	Credential string `json:"credential"`
}

// Service provider 配置服务
type Service struct {
	provider *infraRetrieval.SwitchableProvider
	store    *infraRetrieval.SettingsStore
	cfg      *config.ProviderConfig
	logger   *slog.Logger
}

// NewService 创建配置服务
func NewService(
	provider *infraRetrieval.SwitchableProvider,
	store *infraRetrieval.SettingsStore,
	cfg *config.ProviderConfig,
) *Service {
	return &Service{
		provider: provider,
		store:    store,
		cfg:      cfg,
		logger:   log.NewModuleLogger("settings", "service"),
	}
}

// Get 当前生效的配置
func (s *Service) Get() (*View, error) {
	saved, ok, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	view := &View{Mode: s.provider.Mode()}
	if ok {
		updated := saved.UpdatedAt
		view.Endpoint = saved.Endpoint
		view.Credential = MaskCredential(saved.Credential)
		view.HasCredential = saved.Credential != ""
		view.Overridden = true
		view.UpdatedAt = &updated
		return view, nil
	}
	view.Endpoint = s.cfg.Endpoint
	view.Credential = MaskCredential(s.cfg.Credential)
	view.HasCredential = s.cfg.Credential != ""
	return view, nil
}

// Update 保存覆盖并立即切换 provider
func (s *Service) Update(req *UpdateRequest) (*View, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(req.Endpoint), "/")
	credential := strings.TrimSpace(req.Credential)

	if endpoint == "" {
		if err := s.store.Clear(); err != nil {
			return nil, err
		}
		s.provider.Apply(s.cfg, s.cfg.Endpoint, s.cfg.Credential)
		s.logger.Info("Provider override cleared", "mode", s.provider.Mode())
		return s.Get()
	}

	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}
	if err := s.store.Save(&infraRetrieval.Settings{
		Endpoint:   endpoint,
		Credential: credential,
		UpdatedAt:  time.Now(),
	}); err != nil {
		return nil, err
	}
	s.provider.Apply(s.cfg, endpoint, credential)
	s.logger.Info("Provider override saved", "endpoint", endpoint, "mode", s.provider.Mode())
	return s.Get()
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", retrieval.ErrInvalidEndpoint, endpoint)
	}
	return nil
}

// MaskCredential 只保留末四位
func MaskCredential(credential string) string {
	if credential == "" {
		return ""
	}
	runes := []rune(credential)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
