package utils

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

var (
	supportedTags = mustRegisterLocales(localeFS)
	langMatcher   = language.NewMatcher(supportedTags)
)

// mustRegisterLocales loads every catalog and registers it with x/text.
// English is always first so it wins when nothing matches.
func mustRegisterLocales(fsys fs.FS) []language.Tag {
	tags, err := registerLocales(fsys)
	if err != nil {
		panic(err)
	}
	return tags
}

func registerLocales(fsys fs.FS) ([]language.Tag, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	sort.Strings(paths)

	tags := []language.Tag{language.English}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		tag, err := language.Parse(strings.TrimSpace(file.Locale))
		if err != nil {
			return nil, fmt.Errorf("%s: locale %q: %w", path, file.Locale, err)
		}
		for key, value := range file.Messages {
			if err := message.SetString(tag, key, value); err != nil {
				return nil, fmt.Errorf("%s: %s: %w", path, key, err)
			}
		}
		if tag != language.English {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// RequestLanguage picks the best supported language from Accept-Language.
func RequestLanguage(r *http.Request) language.Tag {
	if r == nil {
		return language.English
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, index, _ := langMatcher.Match(tags...)
	return supportedTags[index]
}

// Translate renders a catalog message in the request's language.
func Translate(r *http.Request, key string, args ...any) string {
	return message.NewPrinter(RequestLanguage(r)).Sprintf(key, args...)
}
