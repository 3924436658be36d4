package retrieval

import "errors"

var (
	// ErrInvalidMethod 不支持的检索方式
	ErrInvalidMethod = errors.New("retrieval method must be one of dense, sparse, hybrid")
	// ErrInvalidTopK top_k 必须为正数
	ErrInvalidTopK = errors.New("top_k must be positive")
	// ErrInvalidEndpoint provider 地址不是 http(s) URL
	ErrInvalidEndpoint = errors.New("provider endpoint must be an http or https URL")
	// ErrProviderUnavailable provider 调用失败
	ErrProviderUnavailable = errors.New("retrieval provider unavailable")
)
