package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported lists the locales with a catalog, source language first.
var Supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(Supported)

// Translator looks strings up by their literal English source text.
type Translator struct {
	cat      catalog.Catalog
	fallback language.Tag
}

// New builds the message catalog. Keys missing from a locale render as the
// source string.
func New(defaultLang string) (*Translator, error) {
	fallback := language.English
	if defaultLang != "" {
		tag, err := language.Parse(defaultLang)
		if err == nil {
			_, idx, _ := matcher.Match(tag)
			fallback = Supported[idx]
		}
	}

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, value := range russian {
		if err := b.SetString(language.Russian, key, value); err != nil {
			return nil, err
		}
	}
	return &Translator{cat: b, fallback: fallback}, nil
}

// Printer returns a printer for tag backed by the catalog.
func (t *Translator) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(t.cat))
}

// Resolve picks a supported locale: explicit ?lang= first, then Accept-Language,
// then the configured default.
func (t *Translator) Resolve(langParam, acceptLanguage string) language.Tag {
	var tags []language.Tag
	if langParam != "" {
		if tag, err := language.Parse(langParam); err == nil {
			tags = append(tags, tag)
		}
	}
	if acceptLanguage != "" {
		if accepted, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
			tags = append(tags, accepted...)
		}
	}
	if len(tags) == 0 {
		return t.fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return t.fallback
	}
	return Supported[idx]
}

func supported(langParam string) bool {
	if langParam == "" {
		return false
	}
	tag, err := language.Parse(langParam)
	if err != nil {
		return false
	}
	_, _, conf := matcher.Match(tag)
	return conf != language.No
}

type ctxKey struct{}

type Locale struct {
	Tag     language.Tag
	Printer *message.Printer
	// Explicit is set when Tag came from a supported ?lang= value, which
	// links back into the site should then carry along.
	Explicit bool
}

// Middleware stores the resolved Locale in the request context.
func (t *Translator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		param := r.URL.Query().Get("lang")
		tag := t.Resolve(param, r.Header.Get("Accept-Language"))
		loc := Locale{Tag: tag, Printer: t.Printer(tag), Explicit: supported(param)}
		w.Header().Add("Vary", "Accept-Language")
		w.Header().Set("Content-Language", tag.String())
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, loc)))
	})
}

// FromContext returns the request locale, or an English one when none is set.
func FromContext(ctx context.Context) Locale {
	if loc, ok := ctx.Value(ctxKey{}).(Locale); ok {
		return loc
	}
	return Locale{Tag: language.English, Printer: message.NewPrinter(language.English)}
}
