// Пакет static — встроенные CSS и JS страниц tienda-admin.
// Bootstrap и HTMX подключаются с CDN, здесь только собственные ассеты.
package static

import (
	"embed"
	"net/http"
)

//go:embed css/*.css js/*.js
var content embed.FS

// Handler отдаёт /static/css/app.css и /static/js/app.js.
func Handler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(content)))
}
