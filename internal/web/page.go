package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed assets
var assetsFS embed.FS

var pageTemplate = template.Must(template.ParseFS(assetsFS, "assets/page.tmpl"))

type pageData struct {
	Variant    string
	Breakpoint int
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		Variant:    s.cfg.LayoutVariant,
		Breakpoint: s.cfg.MobileBreakpoint,
	})
	if err != nil {
		log.Error().Err(err).Msg("Error rendering page")
	}
}

// handleWebsocket attaches a status push socket to the caller's session
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.lookup(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("Websocket upgrade failed")
		return
	}

	client := NewClient(s.hub, sess.ID, conn)
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
