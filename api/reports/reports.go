// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reports

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/builtin/staking"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/runtime"
)

type Reports struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Reports {
	return &Reports{rt}
}

func (r *Reports) writeDetail(w http.ResponseWriter, id uint64) error {
	d, err := r.rt.GetReport(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertDetail(d))
}

func (r *Reports) handleCount(w http.ResponseWriter, _ *http.Request) error {
	count, err := r.rt.ReportCount()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Count{count})
}

func (r *Reports) handleOpen(w http.ResponseWriter, req *http.Request) error {
	var body OpenReport
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	reporter, err := utils.Address(body.Reporter, "reporter")
	if err != nil {
		return err
	}
	reported, err := utils.Address(body.Reported, "reported")
	if err != nil {
		return err
	}
	id, err := r.rt.Report(reporter, reported)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Created{id})
}

func (r *Reports) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	return r.writeDetail(w, id)
}

func (r *Reports) handleSecond(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body SecondReport
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.Address(body.Caller, "caller")
	if err != nil {
		return err
	}
	second, err := utils.Address(body.Second, "second")
	if err != nil {
		return err
	}
	if err := r.rt.SecondReport(caller, id, second); err != nil {
		return err
	}
	return r.writeDetail(w, id)
}

func (r *Reports) handleExpire(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	if err := r.rt.Expire(id); err != nil {
		return err
	}
	return r.writeDetail(w, id)
}

func (r *Reports) handleGetStakes(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	d, err := r.rt.GetReport(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStakes(d.Stakes))
}

func (r *Reports) handleStake(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body PlaceStake
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	staker, err := utils.Address(body.Staker, "staker")
	if err != nil {
		return err
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	side, err := staking.ParseSide(body.Side)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "side"))
	}
	if err := r.rt.Stake(staker, id, amount, side); err != nil {
		return err
	}
	return r.writeDetail(w, id)
}

func (r *Reports) handleSettle(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	if err := r.rt.Settle(id); err != nil {
		return err
	}
	return r.writeDetail(w, id)
}

func (r *Reports) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	d, err := r.rt.GetReport(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertProceeding(d.Proceeding))
}

func (r *Reports) handleVote(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body CastVote
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	voter, err := utils.Address(body.Voter, "voter")
	if err != nil {
		return err
	}
	class, err := lss.ParseVoterClass(body.Class)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "class"))
	}
	verdict, err := lss.ParseVerdict(body.Verdict)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "verdict"))
	}
	if err := r.rt.Vote(voter, id, class, verdict); err != nil {
		return err
	}
	return r.writeDetail(w, id)
}

func (r *Reports) handleProposeWallet(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body ProposeWallet
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.Address(body.Caller, "caller")
	if err != nil {
		return err
	}
	wallet, err := utils.Address(body.Wallet, "wallet")
	if err != nil {
		return err
	}
	if err := r.rt.ProposeWallet(caller, id, wallet); err != nil {
		return err
	}
	return r.writeDetail(w, id)
}

func (r *Reports) handleRejectWallet(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body RejectWallet
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.Address(body.Caller, "caller")
	if err != nil {
		return err
	}
	class, err := lss.ParseVoterClass(body.Class)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "class"))
	}
	if err := r.rt.RejectWallet(caller, id, class); err != nil {
		return err
	}
	return r.writeDetail(w, id)
}

func (r *Reports) handleRetrieveFunds(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body Caller
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.Address(body.Caller, "caller")
	if err != nil {
		return err
	}
	amount, err := r.rt.RetrieveFunds(caller, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Retrieved{utils.HexAmount(amount)})
}

func (r *Reports) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /reports").
		HandlerFunc(utils.WrapHandlerFunc(r.handleCount))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /reports").
		HandlerFunc(utils.WrapHandlerFunc(r.handleOpen))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /reports/{id}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGet))
	sub.Path("/{id}/second").
		Methods(http.MethodPost).
		Name("POST /reports/{id}/second").
		HandlerFunc(utils.WrapHandlerFunc(r.handleSecond))
	sub.Path("/{id}/expire").
		Methods(http.MethodPost).
		Name("POST /reports/{id}/expire").
		HandlerFunc(utils.WrapHandlerFunc(r.handleExpire))
	sub.Path("/{id}/stakes").
		Methods(http.MethodGet).
		Name("GET /reports/{id}/stakes").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetStakes))
	sub.Path("/{id}/stakes").
		Methods(http.MethodPost).
		Name("POST /reports/{id}/stakes").
		HandlerFunc(utils.WrapHandlerFunc(r.handleStake))
	sub.Path("/{id}/settle").
		Methods(http.MethodPost).
		Name("POST /reports/{id}/settle").
		HandlerFunc(utils.WrapHandlerFunc(r.handleSettle))
	sub.Path("/{id}/votes").
		Methods(http.MethodGet).
		Name("GET /reports/{id}/votes").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetVotes))
	sub.Path("/{id}/votes").
		Methods(http.MethodPost).
		Name("POST /reports/{id}/votes").
		HandlerFunc(utils.WrapHandlerFunc(r.handleVote))
	sub.Path("/{id}/wallet").
		Methods(http.MethodPost).
		Name("POST /reports/{id}/wallet").
		HandlerFunc(utils.WrapHandlerFunc(r.handleProposeWallet))
	sub.Path("/{id}/wallet/reject").
		Methods(http.MethodPost).
		Name("POST /reports/{id}/wallet/reject").
		HandlerFunc(utils.WrapHandlerFunc(r.handleRejectWallet))
	sub.Path("/{id}/wallet/retrieve").
		Methods(http.MethodPost).
		Name("POST /reports/{id}/wallet/retrieve").
		HandlerFunc(utils.WrapHandlerFunc(r.handleRetrieveFunds))
}
