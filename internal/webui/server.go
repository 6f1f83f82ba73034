// Package webui exposes the upload server: an HTML form for the two input
// files, a processing endpoint that returns the four result tables as JSON,
// and download routes for the rendered CSVs.
//
// Routes:
//
//	GET  /                → form
//	POST /process         → runs the pipeline on the uploaded files; JSON out
//	GET  /download/{name} → one of the four result CSVs from the last run
package webui

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"stockcover/internal/config"
	"stockcover/internal/cover"
	"stockcover/internal/filestore"
	"stockcover/internal/planner"
	"stockcover/internal/recommend"
	"stockcover/internal/schema"
	"stockcover/internal/store"
	"stockcover/internal/table"
)

// Server wraps http.Server for convenience.
type Server struct {
	cfg   config.Config
	mux   *http.ServeMux
	tmpl  *template.Template
	files *filestore.Store
	repo  store.Repository
}

// NewServer constructs a Server with routes and the embedded template. repo
// may be nil when no SQL sink is configured.
func NewServer(cfg config.Config, files *filestore.Store, repo store.Repository) *Server {
	s := &Server{
		cfg:   cfg,
		mux:   http.NewServeMux(),
		tmpl:  template.Must(template.New("index").Parse(indexHTML)),
		files: files,
		repo:  repo,
	}
	s.routes()
	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Printf("listening on %s", s.cfg.HTTP.Addr)
	return http.ListenAndServe(s.cfg.HTTP.Addr, s.mux)
}

// Handler returns the route mux, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/process", s.handleProcess)
	s.mux.HandleFunc("/download/", s.handleDownload)
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	_ = s.tmpl.Execute(w, nil)
}

// processResponse is the JSON body returned by POST /process. The row types
// marshal with the legacy report headers as keys.
type processResponse struct {
	Status    string                `json:"status"`
	Summary   []cover.SummaryRow    `json:"summary"`
	Warehouse []cover.WarehouseRow  `json:"warehouse"`
	Refill    []recommend.RefillRow `json:"refill"`
	Excess    []recommend.ExcessRow `json:"excess"`
	Downloads map[string]string     `json:"downloads"`
}

// handleProcess accepts the two multipart files, runs the pipeline, persists
// the outputs, and returns every result table in one JSON document.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.HTTP.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.HTTP.MaxUploadBytes); err != nil {
		http.Error(w, "bad upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	salesFile, _, err := r.FormFile("sales_file")
	if err != nil {
		http.Error(w, "missing sales_file", http.StatusBadRequest)
		return
	}
	defer salesFile.Close()
	stockFile, _, err := r.FormFile("stock_file")
	if err != nil {
		http.Error(w, "missing stock_file", http.StatusBadRequest)
		return
	}
	defer stockFile.Close()

	sales, stock, err := parseUploads(salesFile, stockFile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := planner.Run(r.Context(), sales, stock, s.plannerConfig())
	if err != nil {
		var se *schema.Error
		if errors.As(err, &se) {
			http.Error(w, se.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "processing failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	outputs := res.Outputs()
	if err := s.files.WriteOutputs(outputs); err != nil {
		http.Error(w, "writing results failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if s.repo != nil {
		if err := store.EnsureTables(r.Context(), s.repo, s.cfg.Store, outputs, "DOUBLE PRECISION", "BIGINT", "TEXT"); err != nil {
			http.Error(w, "persisting results failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if err := store.Save(r.Context(), s.repo, s.cfg.Store, outputs); err != nil {
			http.Error(w, "persisting results failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	downloads := make(map[string]string, len(outputs))
	for _, out := range outputs {
		downloads[out.Name] = "/download/" + out.Name
	}
	resp := processResponse{
		Status:    "success",
		Summary:   res.Summary,
		Warehouse: res.Warehouse,
		Refill:    res.Refill,
		Excess:    res.Excess,
		Downloads: downloads,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("encode response:", err)
	}
}

// parseUploads reads both CSVs concurrently. The tables are independent and
// uploads arrive together, so the parses overlap.
func parseUploads(salesFile, stockFile multipart.File) (sales, stock table.Table, err error) {
	var g errgroup.Group
	g.Go(func() error {
		var err error
		sales, _, err = table.ReadCSV(salesFile)
		if err != nil {
			return fmt.Errorf("sales file: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stock, _, err = table.ReadCSV(stockFile)
		if err != nil {
			return fmt.Errorf("stock file: %w", err)
		}
		return nil
	})
	err = g.Wait()
	return sales, stock, err
}

// handleDownload streams one of the result CSVs from the last completed run.
// The ETag is a content hash, so unchanged reruns stay cacheable.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/download/")
	f, err := s.files.Open(name)
	if err != nil {
		http.Error(w, "no such result file", http.StatusNotFound)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}
	etag := `"` + strconv.FormatUint(xxh3.Hash(data), 16) + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

func (s *Server) plannerConfig() planner.Config {
	return planner.Config{
		Job:              s.cfg.Job,
		DefaultDays:      s.cfg.Planner.DefaultDays,
		RefillWindowDays: float64(s.cfg.Planner.RequirementDays),
		ExcessWindowDays: float64(s.cfg.Planner.ExcessWindowDays),
		DateLayouts:      s.cfg.Planner.DateLayouts,
	}
}

// indexHTML is the embedded upload page.
//
//go:embed index.tmpl.html
var indexHTML string
