package handler

import (
	"html/template"
	"net/http"

	"medgate/internal/authgate/models"
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head><title>Access approved</title></head>
<body style="font-family: sans-serif; max-width: 36rem; margin: 4rem auto;">
  <h1>Access approved</h1>
  <p><strong>{{.Name}}</strong> ({{.Email}}) now has access to the clinical application.</p>
  <p>Approved at {{.ConfirmedAt.Format "Jan 2, 2006 15:04 MST"}}. You can close this page.</p>
</body>
</html>
`))

var linkErrorTemplate = template.Must(template.New("link_error").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body style="font-family: sans-serif; max-width: 36rem; margin: 4rem auto;">
  <h1>{{.Title}}</h1>
  <p>{{.Message}}</p>
</body>
</html>
`))

func renderConfirmation(w http.ResponseWriter, res *models.ConfirmationResult) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = confirmationTemplate.Execute(w, res)
}

func renderLinkError(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = linkErrorTemplate.Execute(w, map[string]string{
		"Title":   title,
		"Message": message,
	})
}
