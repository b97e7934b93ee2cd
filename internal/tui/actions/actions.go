package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/epgi/internal/xmltv"
)

// loadTimeout bounds a provider load; the HTTP client has its own shorter limit.
const loadTimeout = 30 * time.Second

type Service interface {
	Snapshot(ctx context.Context, index int) (xmltv.Snapshot, error)
}

type ProviderLoadSuccessMsg struct {
	Index    int
	Snapshot xmltv.Snapshot
	Duration time.Duration
}

type ProviderLoadErrorMsg struct {
	Index int
	Err   error
}

type CopyURLSuccessMsg struct {
	Status string
}

type CopyURLErrorMsg struct {
	Err error
}

func LoadProviderCmd(service Service, index int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		start := time.Now()

		snap, err := service.Snapshot(ctx, index)
		if err != nil {
			return ProviderLoadErrorMsg{Index: index, Err: err}
		}
		return ProviderLoadSuccessMsg{Index: index, Snapshot: snap, Duration: time.Since(start)}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn == nil {
			return CopyURLErrorMsg{Err: errors.New("could not copy URL to clipboard: no clipboard handler")}
		}
		if err := copyFn(url); err != nil {
			return CopyURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard: %w", err)}
		}
		return CopyURLSuccessMsg{Status: "URL copied to clipboard"}
	}
}
