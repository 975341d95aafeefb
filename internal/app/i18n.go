package app

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/vcrobe/navdeck/catalog"
	"github.com/vcrobe/navdeck/console"
)

//go:embed locales/*.toml
var localeFS embed.FS

var categoryMessages = map[string]string{
	"ai-tools":      "CategoryAITools",
	"monetization":  "CategoryMonetization",
	"info-gap":      "CategoryInfoGap",
	"data-analysis": "CategoryDataAnalysis",
	"creation":      "CategoryCreation",
}

// Texts localises page titles and card labels.
type Texts struct {
	loc *i18n.Localizer
}

// NewTexts loads the embedded message files and picks lang, falling back
// to English for missing messages.
func NewTexts(lang language.Tag) (*Texts, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, name := range files {
		data, err := fs.ReadFile(localeFS, name)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			return nil, fmt.Errorf("app: parse %s: %w", name, err)
		}
	}
	return &Texts{loc: i18n.NewLocalizer(bundle, lang.String(), language.English.String())}, nil
}

func (t *Texts) get(id string, data map[string]any) string {
	s, err := t.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		console.Warn("[Texts] missing message", id, err.Error())
		return id
	}
	return s
}

// HomeTitle is the document title of the overview page.
func (t *Texts) HomeTitle() string {
	return t.get("TitleHome", nil)
}

// CategoryName returns the display name of a category.
func (t *Texts) CategoryName(category string) string {
	id, ok := categoryMessages[category]
	if !ok {
		return t.get("TitleFallback", nil)
	}
	return t.get(id, nil)
}

// CategoryTitle is the document title of a category page.
func (t *Texts) CategoryTitle(category string) string {
	return t.get("TitleCategory", map[string]any{"Name": t.CategoryName(category)})
}

// Labels returns the localised card labels.
func (t *Texts) Labels() catalog.Labels {
	return catalog.Labels{
		Untitled:      t.get("CardUntitled", nil),
		NoDescription: t.get("CardNoDescription", nil),
		New:           t.get("CardNew", nil),
		Hot:           t.get("CardHot", nil),
		Empty:         t.get("CardEmpty", nil),
		IconSuffix:    t.get("CardIconSuffix", nil),
	}
}
