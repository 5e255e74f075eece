package post

import (
	"fmt"
	"time"
)

var ptBRMonths = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// FormatDate renders t as "dd MMM yyyy" with pt-BR month names, e.g. "15 mar 2021".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), ptBRMonths[t.Month()-1], t.Year())
}
