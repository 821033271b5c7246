package middleware

import (
	"html/template"
	"net/http"
)

var errorFragment = template.Must(template.New("error").Parse(
	`<div class="alert alert-error" role="alert">{{.}}</div>`))

// WriteError responds with msg. htmx requests get an alert fragment they can swap in.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if IsHTMX(r.Context()) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("HX-Retarget", "#flash")
		w.Header().Set("HX-Reswap", "innerHTML")
		w.WriteHeader(code)
		_ = errorFragment.Execute(w, msg)
		return
	}
	http.Error(w, msg, code)
}
