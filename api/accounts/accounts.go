// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/builtin/controller"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/runtime"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) getAccount(addr lss.Address) (*Account, error) {
	acc, err := a.rt.Account(addr)
	if err != nil {
		return nil, err
	}
	return &Account{
		Address:    acc.Address,
		Balance:    utils.HexAmount(acc.Balance),
		Status:     acc.Entry.Status.String(),
		Permanent:  acc.Entry.Permanent,
		ReportID:   acc.Entry.ReportID,
		OpenReport: acc.OpenReport,
		Protocol:   acc.Protocol,
	}, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleSetStatus(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body SetStatus
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.Address(body.Caller, "caller")
	if err != nil {
		return err
	}
	status, err := controller.ParseStatus(body.Status)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "status"))
	}
	if err := a.rt.SetStatus(caller, addr, status); err != nil {
		return err
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/status").
		Methods(http.MethodPut).
		Name("PUT /accounts/{address}/status").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetStatus))
}
