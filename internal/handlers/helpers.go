package handlers

import (
	"net/http"
	"strconv"
	"time"

	"admission-backend/internal/timeutil"

	"github.com/gorilla/mux"
)

// pathID extracts a numeric path variable.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

// queryDate parses a YYYY-MM-DD query parameter in IST.
func queryDate(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	t, err := timeutil.ParseInIST(timeutil.DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}
