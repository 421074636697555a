package order

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// supportedLocales lists the locales with status labels. The first entry is the
// fallback for anything the matcher cannot place.
var supportedLocales = []language.Tag{
	language.English,
	language.Japanese,
	language.Vietnamese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// statusLabels must cover Unknown plus every status of Statuses() for every
// supported locale; mustBuildLabelCatalog panics at start-up otherwise.
var statusLabels = map[language.Tag]map[Status]string{
	language.English: {
		Unknown:    "Unknown",
		Pending:    "Pending",
		Processing: "Processing",
		Shipped:    "Shipped",
		Delivered:  "Delivered",
		Cancelled:  "Cancelled",
	},
	language.Japanese: {
		Unknown:    "不明",
		Pending:    "保留中",
		Processing: "処理中",
		Shipped:    "発送済み",
		Delivered:  "配達済み",
		Cancelled:  "キャンセル済み",
	},
	language.Vietnamese: {
		Unknown:    "Không xác định",
		Pending:    "Chờ xử lý",
		Processing: "Đang xử lý",
		Shipped:    "Đã gửi hàng",
		Delivered:  "Đã giao hàng",
		Cancelled:  "Đã hủy",
	},
}

var labelCatalog = mustBuildLabelCatalog()

func mustBuildLabelCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(supportedLocales[0]))
	for _, locale := range supportedLocales {
		labels, ok := statusLabels[locale]
		if !ok {
			panic(fmt.Sprintf("order: no status labels for locale %s", locale))
		}
		for _, s := range append(Statuses(), Unknown) {
			label, ok := labels[s]
			if !ok || label == "" {
				panic(fmt.Sprintf("order: status %s has no label for locale %s", s, locale))
			}
			if err := b.SetString(locale, labelKey(s), label); err != nil {
				panic(fmt.Sprintf("order: register label %s/%s: %v", locale, s, err))
			}
		}
	}
	return b
}

func labelKey(s Status) string {
	return "order.status." + s.String()
}

// SupportedLocales returns the locales that have status labels, English first.
func SupportedLocales() []language.Tag {
	out := make([]language.Tag, len(supportedLocales))
	copy(out, supportedLocales)
	return out
}

// MatchLocale picks the best supported locale for the given preferences, in
// order. It returns English when nothing matches.
func MatchLocale(preferred ...language.Tag) language.Tag {
	_, index, _ := localeMatcher.Match(preferred...)
	return supportedLocales[index]
}

// Label returns the display label of s in locale. It never fails: an invalid
// status yields the locale's "unknown" label and an unsupported locale falls
// back to English. Labels are for presentation only.
func (s Status) Label(locale language.Tag) string {
	if s.Validate() != nil {
		s = Unknown
	}
	p := message.NewPrinter(MatchLocale(locale), message.Catalog(labelCatalog))
	return p.Sprintf(labelKey(s))
}
