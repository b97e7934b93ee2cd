package platform

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
)

var ErrNoClipboard = errors.New("no clipboard available")

func ValidateProviderURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("provider has no URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func CopyURLToClipboard(url string) error {
	return copyWith(url, clipboard.Unsupported, clipboard.WriteAll)
}

func copyWith(url string, unsupported bool, write func(string) error) error {
	if unsupported {
		return ErrNoClipboard
	}
	valid, err := ValidateProviderURL(url)
	if err != nil {
		return err
	}
	if err := write(valid); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
