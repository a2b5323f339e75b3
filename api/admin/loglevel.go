// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/api/utils"
	"github.com/vechain/lockvest/log"
)

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

// LogLevel reads and changes the verbosity of a running process.
type LogLevel struct {
	level *slog.LevelVar
}

func NewLogLevel(level *slog.LevelVar) *LogLevel {
	return &LogLevel{level}
}

func (l *LogLevel) handleGet(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, logLevelResponse{
		CurrentLevel: log.LevelString(l.level.Level()),
	})
}

func (l *LogLevel) handlePost(w http.ResponseWriter, req *http.Request) error {
	var body logLevelRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	level, ok := levels[body.Level]
	if !ok {
		return utils.BadRequest(errors.Errorf("invalid verbosity level %q", body.Level))
	}
	l.level.Set(level)
	logger.Info("log level changed", "level", body.Level)

	return utils.WriteJSON(w, logLevelResponse{
		CurrentLevel: log.LevelString(level),
	})
}

func (l *LogLevel) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGet))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(l.handlePost))
}
