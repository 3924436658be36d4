package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	"github.com/rag-assistant/backend/internal/infrastructure/discovery"
	"github.com/rag-assistant/backend/internal/infrastructure/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func main() {
	dir := flag.String("dir", "", "sessions directory (defaults to the configured one)")
	sessionID := flag.String("id", "", "print the full transcript of one session")
	browse := flag.Bool("browse", false, "list RAG assistant instances on the local network")
	timeout := flag.Duration("timeout", 3*time.Second, "mDNS browse timeout")
	flag.Parse()

	if *browse {
		browseInstances(*timeout)
		return
	}

	sessionsDir := *dir
	if sessionsDir == "" {
		cfg, err := config.Load()
		if err != nil {
			fail("failed to load configuration: %v", err)
		}
		sessionsDir = cfg.Storage.SessionsDir
	}

	store, err := storage.NewSessionStoreAt(sessionsDir)
	if err != nil {
		fail("failed to open session store: %v", err)
	}

	fmt.Println(titleStyle.Render("Sessions in " + store.Dir()))
	if *sessionID != "" {
		printTranscript(store, *sessionID)
		return
	}
	printSummaries(store)
}

func printSummaries(store *storage.SessionStore) {
	summaries, err := store.ListSummaries()
	if err != nil {
		fail("failed to list sessions: %v", err)
	}
	if len(summaries) == 0 {
		fmt.Println(dimStyle.Render("  (no sessions)"))
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-36s  %-5s  %-19s  %s", "ID", "MSGS", "UPDATED", "TITLE")))
	for _, s := range summaries {
		count := fmt.Sprintf("%-5d", s.MessageCount)
		// 正常会话的消息数恒为偶数
		if s.MessageCount%2 != 0 {
			count = warnStyle.Render(count)
		}
		fmt.Printf(" %-36s  %s  %s  %s\n",
			s.ID,
			count,
			s.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
			s.Title,
		)
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("  %d session(s)", len(summaries))))
}

func printTranscript(store *storage.SessionStore, id string) {
	result, err := store.Get(id)
	if err != nil {
		fail("failed to read session %s: %v", id, err)
	}
	session, ok := result.Session()
	if !ok {
		fail("session %s not found", id)
	}

	fmt.Println(headerStyle.Render(session.Title))
	fmt.Println(dimStyle.Render(fmt.Sprintf("created %s, updated %s",
		session.CreatedAt.Local().Format(time.RFC3339),
		session.UpdatedAt.Local().Format(time.RFC3339),
	)))
	for _, msg := range session.Messages {
		role := okStyle.Render(string(msg.Role))
		if msg.Role == conversation.RoleUser {
			role = warnStyle.Render(string(msg.Role))
		}
		fmt.Printf("\n%s %s\n%s\n", role, dimStyle.Render(msg.Timestamp.Local().Format("15:04:05")), msg.Content)
		for _, src := range msg.Sources {
			fmt.Println(dimStyle.Render(fmt.Sprintf("  - %s (%.2f)", src.Title, src.Score)))
		}
	}
}

func browseInstances(timeout time.Duration) {
	fmt.Println(titleStyle.Render("Browsing " + discovery.ServiceType))
	instances, err := discovery.Browse(context.Background(), timeout)
	if err != nil {
		fail("browse failed: %v", err)
	}
	if len(instances) == 0 {
		fmt.Println(dimStyle.Render("  (no instances found)"))
		return
	}
	for _, inst := range instances {
		var txt []string
		for k, v := range inst.Txt {
			txt = append(txt, k+"="+v)
		}
		fmt.Printf(" %s  %s  %s\n",
			okStyle.Render(inst.Name),
			inst.Endpoint(),
			dimStyle.Render(strings.Join(txt, " ")),
		)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf(format, args...)))
	os.Exit(1)
}
