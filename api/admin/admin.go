// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/lockvest/api/utils"
	"github.com/vechain/lockvest/engine"
	"github.com/vechain/lockvest/log"
)

var logger = log.WithContext("pkg", "admin")

type healthResponse struct {
	Healthy      bool   `json:"healthy"`
	Now          uint64 `json:"now"`
	SQLiteDriver string `json:"sqliteDriver,omitempty"`
}

// New returns the admin router serving log level control and health.
func New(e *engine.Engine, level *slog.LevelVar) http.Handler {
	router := mux.NewRouter()

	NewLogLevel(level).Mount(router, "/admin/loglevel")
	router.Path("/admin/health").
		Methods(http.MethodGet).
		Name("GET /admin/health").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			res := healthResponse{Healthy: true, Now: e.Now()}
			if h := e.History(); h != nil {
				res.SQLiteDriver = h.DriverVersion()
			}
			return utils.WriteJSON(w, res)
		}))

	return handlers.CompressHandler(router)
}
