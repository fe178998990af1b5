package domain

import "time"

// TimeLayout formato canónico de fecha/hora en la base y en la API, siempre UTC.
// Los clientes comparan el valor de last_update como string opaco, por lo que el
// formato debe ser estable.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime serializa un instante al formato canónico en UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime interpreta un string en formato canónico como instante UTC.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.UTC)
}
