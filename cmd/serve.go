package cmd

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jsphweid/ngramdex/configs"
	"github.com/jsphweid/ngramdex/features"
	"github.com/jsphweid/ngramdex/logging"
	"github.com/jsphweid/ngramdex/midi"
	"github.com/jsphweid/ngramdex/model"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves feature extraction over HTTP",
	Long: `Serves feature extraction over HTTP. POST a MIDI file as the body of
/extract to get its features back as JSON; GET /features lists them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		calcs, err := cfg.Calculators()
		if err != nil {
			return err
		}
		handler := cors.New(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
		}).Handler(NewHandler(calcs, cfg.Server.MaxBodySize, log))

		log.Info("serving", logging.Fields{"addr": cfg.Server.Addr})
		return newHTTPServer(cfg.Server, handler).ListenAndServe()
	},
}

func newHTTPServer(c configs.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              c.Addr,
		Handler:           handler,
		ReadHeaderTimeout: c.ReadHeaderTimeout,
		ReadTimeout:       c.ReadTimeout,
		WriteTimeout:      c.WriteTimeout,
		IdleTimeout:       c.IdleTimeout,
	}
}

type server struct {
	calcs       []features.Calculator
	maxBodySize int64
	log         logging.Logger
}

// NewHandler routes /extract and /features. A maxBodySize of 0 leaves
// request bodies unlimited.
func NewHandler(calcs []features.Calculator, maxBodySize int64, l logging.Logger) http.Handler {
	s := &server{calcs: calcs, maxBodySize: maxBodySize, log: logging.OrGlobal(l)}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/extract", s.handleExtract).Methods(http.MethodPost)
	router.HandleFunc("/features", s.handleFeatures).Methods(http.MethodGet)
	return router
}

func (s *server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error(err, "could not write response", logging.Fields{"status": status})
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func (s *server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	res := make([]model.FeatureDescription, 0, len(s.calcs))
	for _, c := range s.calcs {
		res = append(res, model.FeatureDescription{Name: c.Name(), Dimensions: c.Dimensions()})
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *server) handleExtract(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if s.maxBodySize > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBodySize)
	}

	mf, err := midi.ReadMidi(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	piece, err := midi.BuildPiece(mf)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	passId, values, err := extractPiece(piece, s.calcs, s.log)
	if err != nil {
		s.log.Error(err, "extraction failed", logging.Fields{"pass": passId})
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	res := model.ExtractResponse{
		PassId:   passId,
		Voices:   voiceNames(piece.Timeline.Voices),
		Features: make([]model.FeatureValue, len(values)),
	}
	for i, v := range values {
		res.Features[i] = model.FeatureValue{Name: v.Name, Values: v.Values}
	}
	s.writeJSON(w, http.StatusOK, res)
}
