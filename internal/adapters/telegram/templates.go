package telegram

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/pkg/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	tmplWatchlistAlert  = "watchlist_alert.tmpl"
	tmplSnapshotSummary = "snapshot_summary.tmpl"
)

// TemplateManager manages all Telegram notification templates
type TemplateManager struct {
	templates *template.Template
}

// NewTemplateManager loads the embedded notification templates
func NewTemplateManager() (*TemplateManager, error) {
	// md escapes store text such as company and sector names for Markdown messages
	funcs := template.FuncMap{
		"md": func(s string) string {
			return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
		},
	}

	templates, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse telegram templates: %w", err)
	}

	for _, name := range []string{tmplWatchlistAlert, tmplSnapshotSummary} {
		if templates.Lookup(name) == nil {
			return nil, fmt.Errorf("required template not found: %s", name)
		}
	}

	logger.Debug("telegram templates loaded",
		zap.Int("count", len(templates.Templates())),
	)

	return &TemplateManager{templates: templates}, nil
}

// ExecuteTemplate renders template with data
func (tm *TemplateManager) ExecuteTemplate(name string, data interface{}) (string, error) {
	tmpl := tm.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
