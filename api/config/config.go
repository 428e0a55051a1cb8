// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/api/utils"
	"github.com/lossless-cash/lossless-go/builtin/authority"
	"github.com/lossless-cash/lossless-go/builtin/params"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/runtime"
)

type Configs struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Configs {
	return &Configs{rt}
}

func (c *Configs) writeConfig(w http.ResponseWriter, version uint64) error {
	cfg, err := c.rt.Config(version)
	if err != nil {
		return err
	}
	if cfg == nil {
		return utils.NotFound(errors.Errorf("config version %d", version))
	}
	return utils.WriteJSON(w, convertConfig(cfg))
}

func (c *Configs) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	return c.writeConfig(w, 0)
}

func (c *Configs) handleGetHistory(w http.ResponseWriter, req *http.Request) error {
	version, err := utils.Uint64Var(req, "version")
	if err != nil {
		return err
	}
	if version == 0 {
		return utils.BadRequest(errors.New("version: must be positive"))
	}
	return c.writeConfig(w, version)
}

// parseUpdate decodes value according to field.
func parseUpdate(field string, value json.RawMessage) (*runtime.ConfigUpdate, error) {
	var (
		update runtime.ConfigUpdate
		err    error
	)
	switch field {
	case "reportLifetime":
		var v uint64
		err = json.Unmarshal(value, &v)
		update.ReportLifetime = &v
	case "walletDisputePeriod":
		var v uint64
		err = json.Unmarshal(value, &v)
		update.WalletDisputePeriod = &v
	case "reportingAmount", "stakingAmount":
		var v math.HexOrDecimal256
		if err = json.Unmarshal(value, &v); err == nil {
			if field == "reportingAmount" {
				update.ReportingAmount = (*big.Int)(&v)
			} else {
				update.StakingAmount = (*big.Int)(&v)
			}
		}
	case "treasury":
		var v lss.Address
		err = json.Unmarshal(value, &v)
		update.Treasury = &v
	case "remainderPolicy":
		var s string
		if err = json.Unmarshal(value, &s); err == nil {
			var policy params.RemainderPolicy
			policy, err = params.ParseRemainderPolicy(s)
			update.RemainderPolicy = &policy
		}
	case "fees":
		var fees params.Fees
		decoder := json.NewDecoder(bytes.NewReader(value))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(&fees)
		update.Fees = &fees
	default:
		return nil, utils.NotFound(errors.Errorf("unknown config field %q", field))
	}
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, field))
	}
	return &update, nil
}

func (c *Configs) handleUpdate(w http.ResponseWriter, req *http.Request) error {
	var body Update
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.Address(body.Caller, "caller")
	if err != nil {
		return err
	}
	if len(body.Value) == 0 {
		return utils.BadRequest(errors.New("value: missing"))
	}
	update, err := parseUpdate(mux.Vars(req)["field"], body.Value)
	if err != nil {
		return err
	}
	if err := c.rt.UpdateConfig(caller, *update); err != nil {
		return err
	}
	return c.writeConfig(w, 0)
}

func (c *Configs) handlePause(pause bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body Caller
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		caller, err := utils.Address(body.Caller, "caller")
		if err != nil {
			return err
		}
		if pause {
			err = c.rt.Pause(caller)
		} else {
			err = c.rt.Unpause(caller)
		}
		if err != nil {
			return err
		}
		return c.writeToken(w)
	}
}

func (c *Configs) writeToken(w http.ResponseWriter) error {
	info, err := c.rt.Token()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Token{
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		TotalSupply: utils.HexAmount(info.TotalSupply),
		Paused:      info.Paused,
	})
}

func (c *Configs) handleGetToken(w http.ResponseWriter, _ *http.Request) error {
	return c.writeToken(w)
}

func (c *Configs) writeMembers(w http.ResponseWriter, role authority.Role) error {
	members, err := c.rt.Members(role)
	if err != nil {
		return err
	}
	if members == nil {
		members = []lss.Address{}
	}
	return utils.WriteJSON(w, members)
}

func (c *Configs) handleCommittee(add bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body Members
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		caller, err := utils.Address(body.Caller, "caller")
		if err != nil {
			return err
		}
		if len(body.Members) == 0 {
			return utils.BadRequest(errors.New("members: empty"))
		}
		if add {
			err = c.rt.AddCommitteeMembers(caller, body.Members)
		} else {
			err = c.rt.RemoveCommitteeMembers(caller, body.Members)
		}
		if err != nil {
			return err
		}
		return c.writeMembers(w, authority.RoleCommittee)
	}
}

func roleVar(req *http.Request) (authority.Role, error) {
	role, err := authority.ParseRole(mux.Vars(req)["role"])
	if err != nil {
		return 0, utils.NotFound(err)
	}
	return role, nil
}

func (c *Configs) handleGetRole(w http.ResponseWriter, req *http.Request) error {
	role, err := roleVar(req)
	if err != nil {
		return err
	}
	return c.writeMembers(w, role)
}

func (c *Configs) handleRole(grant bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		role, err := roleVar(req)
		if err != nil {
			return err
		}
		var body Member
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		caller, err := utils.Address(body.Caller, "caller")
		if err != nil {
			return err
		}
		addr, err := utils.Address(body.Address, "address")
		if err != nil {
			return err
		}
		if grant {
			err = c.rt.Grant(caller, role, addr)
		} else {
			err = c.rt.Revoke(caller, role, addr)
		}
		if err != nil {
			return err
		}
		return c.writeMembers(w, role)
	}
}

func (c *Configs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /config").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetConfig))
	sub.Path("/history/{version}").
		Methods(http.MethodGet).
		Name("GET /config/history/{version}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetHistory))
	sub.Path("/token").
		Methods(http.MethodGet).
		Name("GET /config/token").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetToken))
	sub.Path("/pause").
		Methods(http.MethodPost).
		Name("POST /config/pause").
		HandlerFunc(utils.WrapHandlerFunc(c.handlePause(true)))
	sub.Path("/unpause").
		Methods(http.MethodPost).
		Name("POST /config/unpause").
		HandlerFunc(utils.WrapHandlerFunc(c.handlePause(false)))
	sub.Path("/committee").
		Methods(http.MethodGet).
		Name("GET /config/committee").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return c.writeMembers(w, authority.RoleCommittee)
		}))
	sub.Path("/committee").
		Methods(http.MethodPost).
		Name("POST /config/committee").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCommittee(true)))
	sub.Path("/committee").
		Methods(http.MethodDelete).
		Name("DELETE /config/committee").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCommittee(false)))
	sub.Path("/roles/{role}").
		Methods(http.MethodGet).
		Name("GET /config/roles/{role}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetRole))
	sub.Path("/roles/{role}").
		Methods(http.MethodPost).
		Name("POST /config/roles/{role}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleRole(true)))
	sub.Path("/roles/{role}").
		Methods(http.MethodDelete).
		Name("DELETE /config/roles/{role}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleRole(false)))
	sub.Path("/{field}").
		Methods(http.MethodPut).
		Name("PUT /config/{field}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleUpdate))
}
