// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/ledger"
)

type Farm struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Farm {
	return &Farm{ledger}
}

func parsePoolID(req *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (f *Farm) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	pools, err := f.ledger.Pools()
	if err != nil {
		return utils.Revert(err)
	}
	result := make([]*Pool, len(pools))
	for i, p := range pools {
		result[i] = convertPool(p)
	}
	return utils.WriteJSON(w, result)
}

func (f *Farm) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePoolID(req)
	if err != nil {
		return err
	}
	p, err := f.ledger.Pool(id)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, convertPool(p))
}

func (f *Farm) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePoolID(req)
	if err != nil {
		return err
	}
	owner, err := chef.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}

	var result *Position
	if err := f.ledger.View(func(n *builtin.Natives, tick uint64) error {
		pos, err := n.Farm.Position(id, owner)
		if err != nil {
			return err
		}
		pending, err := n.Farm.PendingRewards(id, owner, tick)
		if err != nil {
			return err
		}
		result = convertPosition(id, owner, pos)
		result.Pending = utils.Amount(pending)
		result.Tick = tick
		return nil
	}); err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, result)
}

func (f *Farm) handleGetEmission(w http.ResponseWriter, _ *http.Request) error {
	st, err := f.ledger.Emission()
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, convertEmission(st))
}

func (f *Farm) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePoolID(req)
	if err != nil {
		return err
	}
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	net, receipt, err := f.ledger.Deposit(id, body.User, utils.BigInt(body.Amount))
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &DepositResult{
		Net:     utils.Amount(net),
		Receipt: utils.ConvertReceipt(receipt),
	})
}

func (f *Farm) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePoolID(req)
	if err != nil {
		return err
	}
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := f.ledger.Withdraw(id, body.User, utils.BigInt(body.Amount))
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (f *Farm) handleEmergencyWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePoolID(req)
	if err != nil {
		return err
	}
	var body UserRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, receipt, err := f.ledger.EmergencyWithdraw(id, body.User)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &EmergencyWithdrawResult{
		Amount:  utils.Amount(amount),
		Receipt: utils.ConvertReceipt(receipt),
	})
}

func (f *Farm) handleClaimAll(w http.ResponseWriter, req *http.Request) error {
	var body UserRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	outcomes, receipt, err := f.ledger.ClaimAll(body.User)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &ClaimResult{
		Outcomes: convertOutcomes(outcomes),
		Receipt:  utils.ConvertReceipt(receipt),
	})
}

func (f *Farm) handleAddPool(w http.ResponseWriter, req *http.Request) error {
	var body AddPoolRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	p, receipt, err := f.ledger.AddPool(body.Caller, body.Asset, body.Weight, body.DepositFeeBP, body.WithUpdate)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &PoolResult{
		Pool:    convertPool(p),
		Receipt: utils.ConvertReceipt(receipt),
	})
}

func (f *Farm) handleSetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePoolID(req)
	if err != nil {
		return err
	}
	var body SetPoolRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	p, receipt, err := f.ledger.SetPool(body.Caller, id, body.Weight, body.DepositFeeBP, body.WithUpdate)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &PoolResult{
		Pool:    convertPool(p),
		Receipt: utils.ConvertReceipt(receipt),
	})
}

func (f *Farm) handleSetEmissionRate(w http.ResponseWriter, req *http.Request) error {
	var body RateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.RewardPerTick == nil {
		return utils.BadRequest(errors.New("body: rewardPerTick required"))
	}
	receipt, err := f.ledger.SetEmissionRate(body.Caller, utils.BigInt(body.RewardPerTick))
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (f *Farm) handleMassUpdatePools(w http.ResponseWriter, req *http.Request) error {
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := f.ledger.MassUpdatePools(body.Caller)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (f *Farm) handleTransferAdmin(w http.ResponseWriter, req *http.Request) error {
	var body TransferAdminRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := f.ledger.TransferAdmin(body.Caller, body.Next)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (f *Farm) handleGetAdmin(w http.ResponseWriter, _ *http.Request) error {
	var admin chef.Address
	if err := f.ledger.View(func(n *builtin.Natives, _ uint64) (err error) {
		admin, err = n.Admin.Get()
		return
	}); err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, utils.M{"admin": admin})
}

func (f *Farm) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("GET /farm/pools").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetPools))
	sub.Path("/pools").
		Methods(http.MethodPost).
		Name("POST /farm/pools").
		HandlerFunc(utils.WrapHandlerFunc(f.handleAddPool))
	sub.Path("/pools/update").
		Methods(http.MethodPost).
		Name("POST /farm/pools/update").
		HandlerFunc(utils.WrapHandlerFunc(f.handleMassUpdatePools))
	sub.Path("/pools/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /farm/pools/{id}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetPool))
	sub.Path("/pools/{id:[0-9]+}").
		Methods(http.MethodPut).
		Name("PUT /farm/pools/{id}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleSetPool))
	sub.Path("/pools/{id:[0-9]+}/positions/{address}").
		Methods(http.MethodGet).
		Name("GET /farm/pools/{id}/positions/{address}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetPosition))
	sub.Path("/pools/{id:[0-9]+}/deposit").
		Methods(http.MethodPost).
		Name("POST /farm/pools/{id}/deposit").
		HandlerFunc(utils.WrapHandlerFunc(f.handleDeposit))
	sub.Path("/pools/{id:[0-9]+}/withdraw").
		Methods(http.MethodPost).
		Name("POST /farm/pools/{id}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(f.handleWithdraw))
	sub.Path("/pools/{id:[0-9]+}/emergency-withdraw").
		Methods(http.MethodPost).
		Name("POST /farm/pools/{id}/emergency-withdraw").
		HandlerFunc(utils.WrapHandlerFunc(f.handleEmergencyWithdraw))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("POST /farm/claim").
		HandlerFunc(utils.WrapHandlerFunc(f.handleClaimAll))
	sub.Path("/emission").
		Methods(http.MethodGet).
		Name("GET /farm/emission").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetEmission))
	sub.Path("/emission/rate").
		Methods(http.MethodPost).
		Name("POST /farm/emission/rate").
		HandlerFunc(utils.WrapHandlerFunc(f.handleSetEmissionRate))
	sub.Path("/admin").
		Methods(http.MethodGet).
		Name("GET /farm/admin").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetAdmin))
	sub.Path("/admin").
		Methods(http.MethodPost).
		Name("POST /farm/admin").
		HandlerFunc(utils.WrapHandlerFunc(f.handleTransferAdmin))
}
