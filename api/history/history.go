// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package history

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockvest/api/utils"
	"github.com/vechain/lockvest/oplog"
	"github.com/vechain/lockvest/thor"
)

type Entry struct {
	Seq       int64        `json:"seq"`
	ID        string       `json:"id"`
	Op        string       `json:"op"`
	At        uint64       `json:"at"`
	Subject   thor.Address `json:"subject"`
	Amount    uint64       `json:"amount"`
	Outcome   string       `json:"outcome"`
	ElapsedUs int64        `json:"elapsedUs"`
}

type History struct {
	db    *oplog.OpLog
	limit int
}

// New creates the history resource. limit caps the entries of one response.
func New(db *oplog.OpLog, limit int) *History {
	return &History{db, limit}
}

func (h *History) parseFilter(req *http.Request) (oplog.Filter, error) {
	query := req.URL.Query()
	filter := oplog.Filter{
		Op:      query.Get("op"),
		Outcome: query.Get("outcome"),
		Limit:   h.limit,
	}
	if s := query.Get("subject"); s != "" {
		subject, err := thor.ParseAddress(s)
		if err != nil {
			return filter, utils.BadRequest(errors.WithMessage(err, "subject"))
		}
		filter.Subject = subject
	}
	if s := query.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 {
			return filter, utils.BadRequest(errors.New("limit: must be a positive integer"))
		}
		if limit > h.limit {
			return filter, utils.BadRequest(errors.Errorf("limit: exceeds %d", h.limit))
		}
		filter.Limit = limit
	}
	return filter, nil
}

func (h *History) handleQuery(w http.ResponseWriter, req *http.Request) error {
	filter, err := h.parseFilter(req)
	if err != nil {
		return err
	}
	entries, err := h.db.Query(filter)
	if err != nil {
		return err
	}
	res := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		res = append(res, &Entry{
			Seq:       e.Seq,
			ID:        e.ID,
			Op:        e.Op,
			At:        e.At,
			Subject:   e.Subject,
			Amount:    e.Amount,
			Outcome:   e.Outcome,
			ElapsedUs: e.Elapsed.Microseconds(),
		})
	}
	return utils.WriteJSON(w, res)
}

func (h *History) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /history").
		HandlerFunc(utils.WrapHandlerFunc(h.handleQuery))
}
