package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rag-assistant/backend/internal/domain/events"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

// InboxWatcher 监听收件箱目录，文件写入稳定后发布 DocumentDropped
type InboxWatcher struct {
	dir       string
	debounce  time.Duration
	publisher events.Publisher
	watcher   *fsnotify.Watcher
	logger    *slog.Logger

	timers   map[string]*time.Timer
	timersMu sync.Mutex

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewInboxWatcher 按配置创建
func NewInboxWatcher(storage *config.StorageConfig, docs *config.DocumentsConfig, publisher events.Publisher) *InboxWatcher {
	return NewInboxWatcherAt(storage.InboxDir(), docs.InboxDebounce, publisher)
}

// NewInboxWatcherAt 使用指定目录和防抖时间
func NewInboxWatcherAt(dir string, debounce time.Duration, publisher events.Publisher) *InboxWatcher {
	return &InboxWatcher{
		dir:       dir,
		debounce:  debounce,
		publisher: publisher,
		logger:    log.NewModuleLogger("watcher", "inbox"),
		timers:    make(map[string]*time.Timer),
		stopCh:    make(chan struct{}),
	}
}

// Dir 收件箱目录
func (w *InboxWatcher) Dir() string {
	return w.dir
}

// Start 创建目录、投递已存在的文件并开始监听
func (w *InboxWatcher) Start() error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create inbox directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch inbox: %w", err)
	}
	w.watcher = fsw

	pending := w.scanExisting()
	w.logger.Info("Inbox watcher started",
		"dir", w.dir,
		"pending", pending,
	)

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop 停止监听，未触发的防抖定时器被丢弃
func (w *InboxWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.watcher != nil {
			w.watcher.Close()
		}
		w.wg.Wait()

		w.timersMu.Lock()
		for name, timer := range w.timers {
			timer.Stop()
			delete(w.timers, name)
		}
		w.timersMu.Unlock()
		w.logger.Info("Inbox watcher stopped")
	})
}

func (w *InboxWatcher) scanExisting() int {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("Failed to read inbox directory", "error", err)
		return 0
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || ignoredName(entry.Name()) {
			continue
		}
		w.schedule(filepath.Join(w.dir, entry.Name()))
		count++
	}
	return count
}

func (w *InboxWatcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if ignoredName(filepath.Base(event.Name)) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Inbox watcher error", "error", err)
		}
	}
}

// schedule 同一路径的连续写入只触发一次
func (w *InboxWatcher) schedule(path string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.timersMu.Lock()
		delete(w.timers, path)
		w.timersMu.Unlock()

		select {
		case <-w.stopCh:
			return
		default:
		}
		w.emit(path)
	})
}

func (w *InboxWatcher) emit(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	w.logger.Debug("Document dropped", "path", path, "size", info.Size())
	w.publisher.Publish(&events.DocumentEvent{
		EventType: events.DocumentDropped,
		Filename:  filepath.Base(path),
		FilePath:  path,
		EventTime: time.Now(),
	})
}

// ignoredName 跳过隐藏文件和编辑器临时文件
func ignoredName(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, ".tmp") ||
		strings.HasSuffix(name, ".part") ||
		strings.HasSuffix(name, "~")
}
