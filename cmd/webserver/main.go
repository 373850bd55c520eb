package main

import (
	"embed"
	"flag"
	"html/template"
	"net/http"
	"time"

	"genquiz"

	"github.com/gorilla/sessions"
)

//go:embed templates/*.html
var templateFS embed.FS

func main() {
	configPath := flag.String("config", "", "Optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := genquiz.LoadConfig(*configPath)
	if err != nil {
		genquiz.Log().WithError(err).Fatal("Failed to load config")
	}
	genquiz.SetVerbose(cfg.Verbose)
	genquiz.SetJSONLogs()

	if cfg.APIKey == "" {
		genquiz.Log().Warn("No API key configured, every quiz generation will fail")
	}

	service, err := genquiz.NewServiceFromConfig(cfg)
	if err != nil {
		genquiz.Log().WithError(err).Fatal("Failed to create quiz service")
	}

	server := NewServer(service, sessions.NewCookieStore([]byte(cfg.SessionSecret)), loadTemplates(), cfg.QuestionSeconds())
	go server.evictIdle(10*time.Minute, 2*time.Hour)

	addr := ":" + cfg.Port
	genquiz.Log().WithField("addr", addr).WithField("provider", cfg.Provider).Info("Starting server")

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		genquiz.Log().WithError(err).Fatal("Server stopped")
	}
}

func loadTemplates() map[genquiz.QuizStatus]*template.Template {
	funcMap := template.FuncMap{
		"letter": func(i int) string {
			return string(rune('A' + i))
		},
		"add": func(a, b int) int {
			return a + b
		},
	}

	templateFiles := map[genquiz.QuizStatus]string{
		genquiz.StatusIdle:     "templates/setup.html",
		genquiz.StatusLoading:  "templates/loading.html",
		genquiz.StatusPlaying:  "templates/play.html",
		genquiz.StatusFinished: "templates/results.html",
	}

	templates := make(map[genquiz.QuizStatus]*template.Template, len(templateFiles))
	for status, file := range templateFiles {
		templates[status] = template.Must(template.New(string(status)).Funcs(funcMap).ParseFS(templateFS, "templates/base.html", file))
	}
	return templates
}
