package http

import (
	"storefront/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

const (
	headerAcceptLanguage  = "Accept-Language"
	headerContentLanguage = "Content-Language"
)

// resolveLocale picks the label locale for a request. An explicit lang
// parameter wins over Accept-Language; anything unsupported falls back to
// English. The chosen locale is echoed in Content-Language.
func resolveLocale(ctx echo.Context, lang *string) language.Tag {
	var preferred []language.Tag

	if lang != nil && *lang != "" {
		if tag, err := language.Parse(*lang); err == nil {
			preferred = append(preferred, tag)
		}
	}

	accept := ctx.Request().Header.Get(headerAcceptLanguage)
	if accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			preferred = append(preferred, tags...)
		}
	}

	locale := order.MatchLocale(preferred...)
	ctx.Response().Header().Set(headerContentLanguage, locale.String())

	return locale
}
