package ui

import (
	"errors"
	"io"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/ktrend/dashboard"
)

// Message types for async operations

// resultMsg carries a finished fetch back to the update loop, where the
// controller decides whether it is still current.
type resultMsg struct {
	result dashboard.Result
}

type openDoneMsg struct {
	url string
	err error
}

// runTasks turns controller tasks into commands that run concurrently.
func runTasks(tasks []dashboard.Task) tea.Cmd {
	if len(tasks) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, t := range tasks {
		cmds = append(cmds, func() tea.Msg {
			return resultMsg{result: t.Run()}
		})
	}
	return tea.Batch(cmds...)
}

// cacheClearer is implemented by sources that cache responses.
type cacheClearer interface {
	ClearCache()
}

func newsURL(keyword string) string {
	return "https://search.naver.com/search.naver?where=news&query=" + url.QueryEscape(keyword)
}

func youtubeURL(keyword string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(keyword)
}

// openURL opens u with the platform opener.
func openURL(u string) tea.Cmd {
	u = strings.TrimSpace(u)
	if u == "" {
		return func() tea.Msg { return openDoneMsg{err: errors.New("empty url")} }
	}
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", u)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", "", u)
		default:
			cmd = exec.Command("xdg-open", u)
		}
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
		if err := cmd.Start(); err != nil {
			return openDoneMsg{url: u, err: err}
		}
		return openDoneMsg{url: u, err: cmd.Wait()}
	}
}
