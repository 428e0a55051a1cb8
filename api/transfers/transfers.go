// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/runtime"
)

type Transfers struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Transfers {
	return &Transfers{rt}
}

func parseTransfer(req *http.Request) (from, to lss.Address, amount *big.Int, err error) {
	var body Transfer
	if err = utils.ParseJSON(req.Body, &body); err != nil {
		err = utils.BadRequest(errors.WithMessage(err, "body"))
		return
	}
	if from, err = utils.Address(body.From, "from"); err != nil {
		return
	}
	if to, err = utils.Address(body.To, "to"); err != nil {
		return
	}
	amount, err = utils.Amount(body.Amount, "amount")
	return
}

func (t *Transfers) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	from, to, amount, err := parseTransfer(req)
	if err != nil {
		return err
	}
	if err := t.rt.Transfer(from, to, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, &CheckResult{Allowed: true})
}

func (t *Transfers) handleCheck(w http.ResponseWriter, req *http.Request) error {
	from, to, amount, err := parseTransfer(req)
	if err != nil {
		return err
	}
	if err := t.rt.CheckTransfer(from, to, amount); err != nil {
		if !reverts.IsRevertErr(err) {
			return err
		}
		return utils.WriteJSON(w, &CheckResult{Allowed: false, Reason: err.Error()})
	}
	return utils.WriteJSON(w, &CheckResult{Allowed: true})
}

func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transfers").
		HandlerFunc(utils.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/check").
		Methods(http.MethodPost).
		Name("POST /transfers/check").
		HandlerFunc(utils.WrapHandlerFunc(t.handleCheck))
}
