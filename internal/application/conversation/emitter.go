package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

// streamBuffer 事件通道缓冲
const streamBuffer = 16

// Emitter 以事件流的形式执行一轮对话
type Emitter struct {
	engine *Engine
}

// NewEmitter 创建流式输出器
func NewEmitter(engine *Engine) *Emitter {
	return &Emitter{engine: engine}
}

// Stream 开始一轮流式对话
// 只有校验失败会同步返回错误，其余失败以 error 事件结束。
// 生产者不跟随调用方取消：调用方必须读完通道，保存照常完成
func (s *Emitter) Stream(ctx context.Context, question, sessionID string) (<-chan StreamEvent, error) {
	if strings.TrimSpace(question) == "" {
		return nil, conversation.ErrEmptyQuestion
	}

	out := make(chan StreamEvent, streamBuffer)
	go func() {
		defer close(out)
		s.run(context.WithoutCancel(ctx), question, sessionID, out)
	}()
	return out, nil
}

func (s *Emitter) run(ctx context.Context, question, sessionID string, out chan<- StreamEvent) {
	e := s.engine
	logger := log.FromContext(ctx, e.logger)

	fail := func(err error) {
		logger.Error("Stream failed", "error", err)
		out <- errorEvent(err)
	}

	t, err := e.begin(question, sessionID)
	if err != nil {
		fail(err)
		return
	}
	defer t.unlock()
	t.session.AppendUser(question, e.now())

	stream, err := e.provider.Stream(ctx, e.request(question))
	if err != nil {
		fail(fmt.Errorf("failed to start generation: %w", err))
		return
	}
	defer stream.Close()

	sources := stream.Sources()
	out <- metadataEvent(t.session.ID, sources)

	var answer strings.Builder
	fragments := 0
	for {
		fragment, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fail(fmt.Errorf("generation interrupted: %w", err))
			return
		}
		answer.WriteString(fragment)
		fragments++
		out <- contentEvent(fragment)
	}
	// 成功的流至少包含一个 content 事件
	if fragments == 0 {
		out <- contentEvent("")
	}

	if err := e.finish(ctx, t, answer.String(), sources); err != nil {
		fail(err)
		return
	}
	out <- endEvent(t.session.ID)
}
