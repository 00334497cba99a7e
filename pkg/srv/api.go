/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
	"jinr.ru/greenlab/go-pmbus/pkg/config"
	"jinr.ru/greenlab/go-pmbus/pkg/log"
	"jinr.ru/greenlab/go-pmbus/pkg/store"
)

const (
	ApiPrefix       = "/api"
	DocsPath        = "docs"
	shutdownTimeout = 5 * time.Second
)

//go:embed swagger.json
var swaggerJSON []byte

// Success response
type RespOk struct {
	// HTTP status code 200 - OK
	Code int `json:"code"`
}

type ProfileInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Commands    string `json:"commands"`
}

type ApiServer struct {
	context.Context
	*config.Config
	Router *mux.Router
	state  *store.State
	spec   *loads.Document
}

func NewApiServer(ctx context.Context, cfg *config.Config, state *store.State) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s", cfg.ApiAddress())
	spec, err := loads.Analyzed(json.RawMessage(swaggerJSON), "")
	if err != nil {
		return nil, fmt.Errorf("invalid API document: %w", err)
	}
	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		state:   state,
		spec:    spec,
	}
	s.configureRouter()
	return s, nil
}

// Handler is the router wrapped into the swagger document, the API docs
// page, panic recovery and the access log.
func (s *ApiServer) Handler() http.Handler {
	var h http.Handler = s.Router
	h = middleware.Redoc(middleware.RedocOpts{
		BasePath: "/",
		Path:     DocsPath,
		SpecURL:  "/swagger.json",
		Title:    s.spec.Spec().Info.Title,
	}, h)
	h = middleware.Spec("/", s.spec.Raw(), h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(h)
	return handlers.LoggingHandler(log.Writer(), h)
}

// Run serves the API until the server context is done
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s", s.Config.ApiAddress())
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    s.Config.ApiAddress(),
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-s.Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return err
		}
		return nil
	}
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix(ApiPrefix).Subrouter()
	subRouter.HandleFunc("/captures", s.handleCaptures()).Methods("GET")
	subRouter.HandleFunc("/tx/{capture}", s.handleTx()).Methods("GET")
	subRouter.HandleFunc("/tx/{capture}", s.handleTxDelete()).Methods("DELETE")
	// addr and cmd must be hexadecimal bytes
	subRouter.HandleFunc("/reg/r/{capture}/{addr:0x[0-9a-fA-F]{2}}/{cmd:0x[0-9a-fA-F]{2}}", s.handleRegRead()).Methods("GET")
	subRouter.HandleFunc("/reg/r/{capture}", s.handleRegReadAll()).Methods("GET")
	subRouter.HandleFunc("/profiles", s.handleProfiles()).Methods("GET")
	subRouter.HandleFunc("/profiles/{name}", s.handleProfile()).Methods("GET")
	subRouter.PathPrefix("/").HandlerFunc(s.handleUnknown())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}

// notFoundOr maps store lookups that found nothing to 404
func notFoundOr(w http.ResponseWriter, err error, code int) {
	if errors.As(err, &store.ErrBucketNotFound{}) || errors.As(err, &store.ErrKeyNotFound{}) ||
		errors.As(err, &bus.ErrUnknownProfile{}) {
		code = http.StatusNotFound
	}
	http.Error(w, err.Error(), code)
}

func (s *ApiServer) handleCaptures() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling captures request")
		names, err := s.state.Captures()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if names == nil {
			names = []string{}
		}
		writeJSON(w, names)
	}
}

func (s *ApiServer) handleTx() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling transactions request: capture: %s", vars["capture"])
		records, err := s.state.GetRecords(vars["capture"])
		if err != nil {
			notFoundOr(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, records)
	}
}

func (s *ApiServer) handleTxDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling capture delete request: capture: %s", vars["capture"])
		if err := s.state.DeleteCapture(vars["capture"]); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, RespOk{Code: http.StatusOK})
	}
}

func (s *ApiServer) handleRegRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling reg read request: capture: %s addr: %s cmd: %s", vars["capture"], vars["addr"], vars["cmd"])

		addr, err := strconv.ParseUint(vars["addr"], 0, 8)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if addr > 0x7f {
			http.Error(w, fmt.Sprintf("Address %s is not a 7-bit address", vars["addr"]), http.StatusBadRequest)
			return
		}
		cmd, err := strconv.ParseUint(vars["cmd"], 0, 8)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		reg, err := s.state.GetReg(vars["capture"], uint8(addr), uint8(cmd))
		if err != nil {
			notFoundOr(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, reg)
	}
}

func (s *ApiServer) handleRegReadAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling reg read all request: capture: %s", vars["capture"])
		regs, err := s.state.GetRegAll(vars["capture"])
		if err != nil {
			notFoundOr(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, regs)
	}
}

func (s *ApiServer) handleProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling profiles request")
		profiles, err := bus.AllProfiles(s.Config.ProfilesDir)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		infos := []ProfileInfo{}
		for _, p := range profiles {
			infos = append(infos, ProfileInfo{Name: p.Name, Description: p.Description, Commands: p.Commands.Name})
		}
		writeJSON(w, infos)
	}
}

func (s *ApiServer) handleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling profile request: name: %s", vars["name"])
		p, err := bus.ResolveProfile(vars["name"], s.Config.ProfilesDir)
		if err != nil {
			notFoundOr(w, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, bus.NewProfileFile(p))
	}
}

func (s *ApiServer) handleUnknown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := ErrUnknownOperation{What: fmt.Sprintf("%s %s", r.Method, r.URL.Path)}
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error("Recovered from panic: %s", fmt.Sprint(v...))
}
