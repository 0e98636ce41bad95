package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// PathString значение переменной пути; пустая строка, если переменной нет
func PathString(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// PathInt64 числовая переменная пути
func PathInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// QueryString необязательный строковый параметр запроса
func QueryString(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

// QueryDate параметр запроса в формате YYYY-MM-DD
func QueryDate(r *http.Request, name string) (time.Time, error) {
	return ParseDate(r.URL.Query().Get(name))
}

// ParseDate дата в формате YYYY-MM-DD в UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, s, time.UTC)
}
