// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package verify

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/runtime"
)

type Violation struct {
	ReportID uint64 `json:"reportID"`
	Reason   string `json:"reason"`
}

type Result struct {
	Healthy    bool         `json:"healthy"`
	Reports    uint64       `json:"reports"`
	Violations []*Violation `json:"violations"`
	Took       string       `json:"took"`
}

type Verify struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Verify {
	return &Verify{rt}
}

func (v *Verify) handleVerify(w http.ResponseWriter, _ *http.Request) error {
	start := time.Now()

	var reports uint64
	found, err := v.rt.Verify(func(_, total uint64) { reports = total })
	if err != nil {
		return err
	}

	result := &Result{
		Healthy:    len(found) == 0,
		Reports:    reports,
		Violations: make([]*Violation, 0, len(found)),
		Took:       time.Since(start).String(),
	}
	for _, f := range found {
		result.Violations = append(result.Violations, &Violation{ReportID: f.ReportID, Reason: f.Reason})
	}
	if !result.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, result)
}

func (v *Verify) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/verify").
		HandlerFunc(utils.WrapHandlerFunc(v.handleVerify))
}
