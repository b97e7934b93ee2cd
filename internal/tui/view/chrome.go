package view

import (
	"fmt"

	tuitheme "github.com/glabrego/epgi/internal/tui/theme"
)

func ProvidersHeader(count int) string {
	return fmt.Sprintf("EPGi  %d providers", count)
}

// NowStatus shows the active filter and how many of the airing channels it keeps.
func NowStatus(filter string, shown, total int) string {
	filterLabel := "[F]ilter: None"
	if filter != "" {
		filterLabel = fmt.Sprintf("[F]ilter: '%s'", filter)
	}
	return fmt.Sprintf("%s  %d/%d", filterLabel, shown, total)
}

func TimelineHeader(channel string, count int) string {
	return fmt.Sprintf("%s  %d programmes", channel, count)
}

func DetailHeader(channel, title string) string {
	if channel == "" {
		return title
	}
	return channel + " / " + title
}

// LoadingLine is drawn while a provider feed is being fetched.
func LoadingLine(spinner, url string, th tuitheme.Theme) string {
	return th.StateLoad.Render(spinner + " Loading " + url)
}

// EmptyLine explains an empty list.
func EmptyLine(filter string, noData bool) string {
	switch {
	case noData:
		return "No EPG data for this provider. Check EPGi.log for details."
	case filter != "":
		return "No channels match the filter."
	default:
		return "Nothing is airing right now."
	}
}
