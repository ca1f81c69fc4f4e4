package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/interfaces"
)

// RenderTemplate substitutes named {placeholder} tokens into a template
// body. Unknown placeholders are left untouched so a bad template is
// visible in the delivered text instead of silently dropped.
func RenderTemplate(text string, values map[string]string) string {
	if len(values) == 0 {
		return text
	}

	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Renderer resolves locale template bodies from storage and fills in
// their placeholders.
type Renderer struct {
	templates interfaces.TemplateRepositoryInterface
}

func NewRenderer(templates interfaces.TemplateRepositoryInterface) *Renderer {
	return &Renderer{templates: templates}
}

// Render resolves the active template for a stage key, channel and locale
// and substitutes values. When no active template exists the fallback
// body is rendered instead.
func (r *Renderer) Render(ctx context.Context, key, channel, locale, fallback string, values map[string]string) string {
	template, err := r.templates.GetActiveTemplate(ctx, key, channel, locale)
	if err != nil || template == nil {
		logger.CtxDebug(ctx, "Falling back to built-in message body",
			slog.String("key", key),
			slog.String("channel", channel),
		)
		return RenderTemplate(fallback, values)
	}
	return RenderTemplate(template.Text, values)
}
