package render

import (
	"fmt"
	"strings"
	"time"
)

// 月の略称 (date-fns の LLL 相当)
var monthAbbr = map[string][12]string{
	"pt-br": {"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	"en-us": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	"es-es": {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
}

const defaultLocale = "pt-br"

// "dd LLL y" 形式の日付 (nil は空文字)
func FormatDate(t *time.Time, locale string, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}

	months, ok := monthAbbr[strings.ToLower(locale)]
	if !ok {
		months = monthAbbr[defaultLocale]
	}

	local := t.In(loc)
	return fmt.Sprintf("%02d %s %d", local.Day(), months[local.Month()-1], local.Year())
}
