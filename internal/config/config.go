package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/ini.v1"
)

const (
	DefaultPath       = "EPGi.ini"
	defaultDateFormat = "%d.%m"
	defaultTimeFormat = "%H:%M"
)

var (
	// ErrConfigNotFound is fatal at startup.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrUnknownTimezone is reported as a warning; the local zone is used instead.
	ErrUnknownTimezone = errors.New("unknown timezone")
)

var reProviderKey = regexp.MustCompile(`^url(\d+)$`)

// Provider is one configured EPG source. Index is 1-based.
type Provider struct {
	Index int
	URL   string
}

// Config holds the runtime settings read from the INI file.
type Config struct {
	Providers  []Provider
	Location   *time.Location
	Locale     language.Tag
	DateFormat string
	TimeFormat string
	Colors     Colors
}

// Load reads the INI file at path. Only a missing or unreadable file is an error;
// bad optional settings fall back to defaults and bad provider URLs are kept,
// both with a warning.
func Load(path string, logger *zap.Logger) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("stat config %s: %w", path, err)
	}

	// Section names stay as written so a [DEFAULT] header maps onto
	// ini.DefaultSection; only key names are case-insensitive.
	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return FromINI(file, logger)
}

// FromINI builds a Config from the default section of file.
func FromINI(file *ini.File, logger *zap.Logger) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sec := file.Section(ini.DefaultSection)

	cfg := Config{
		Providers:  providersFromSection(sec),
		DateFormat: sec.Key("date_fmt").MustString(defaultDateFormat),
		TimeFormat: sec.Key("time_fmt").MustString(defaultTimeFormat),
	}

	loc, err := ResolveLocation(sec.Key("tz").String())
	if err != nil {
		logger.Warn("Falling back to system timezone", zap.Error(err))
	}
	cfg.Location = loc

	cfg.Locale = language.Und
	if raw := strings.TrimSpace(sec.Key("locale").String()); raw != "" {
		tag, err := language.Parse(normalizeLocale(raw))
		if err != nil {
			logger.Warn("Could not use locale", zap.String("locale", raw), zap.Error(err))
		} else {
			cfg.Locale = tag
		}
	}

	cfg.Colors = DefaultColors()
	for i, name := range colorKeys {
		raw := sec.Key(name).String()
		if raw == "" {
			continue
		}
		pair, err := ParseColorPair(raw)
		if err != nil {
			logger.Warn("Ignoring color setting", zap.String("key", name), zap.Error(err))
			continue
		}
		cfg.Colors.set(i, pair)
	}

	// A bad URL only fails its own provider, which then opens with no data.
	if err := cfg.Validate(); err != nil {
		logger.Warn("Provider URL will not load", zap.Error(err))
	}
	return cfg, nil
}

// Validate reports every provider URL that cannot be fetched over http(s).
func (c Config) Validate() error {
	var errs []error
	for _, p := range c.Providers {
		if err := validateURL(p.URL); err != nil {
			errs = append(errs, fmt.Errorf("provider %d: %w", p.Index, err))
		}
	}
	if c.Location == nil {
		errs = append(errs, errors.New("location is required"))
	}
	return errors.Join(errs...)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("invalid URL host")
	}
	return nil
}

// ResolveLocation loads an IANA zone name. An empty name or an unknown zone yields
// time.Local; the unknown case also returns ErrUnknownTimezone.
func ResolveLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local, fmt.Errorf("%w %q: %v", ErrUnknownTimezone, name, err)
	}
	return loc, nil
}

// providersFromSection collects urlN keys ordered by N. The provider index is the
// position in that order, so gaps in the numbering are closed.
func providersFromSection(sec *ini.Section) []Provider {
	type numbered struct {
		n   int
		url string
	}
	var found []numbered
	for _, key := range sec.Keys() {
		m := reProviderKey.FindStringSubmatch(strings.ToLower(key.Name()))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		value := strings.TrimSpace(key.String())
		if value == "" {
			continue
		}
		found = append(found, numbered{n: n, url: value})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].n < found[j].n })

	providers := make([]Provider, 0, len(found))
	for i, f := range found {
		providers = append(providers, Provider{Index: i + 1, URL: f.url})
	}
	return providers
}

// normalizeLocale turns POSIX forms like "de_DE.UTF-8" into BCP 47.
func normalizeLocale(raw string) string {
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ReplaceAll(raw, "_", "-")
}
