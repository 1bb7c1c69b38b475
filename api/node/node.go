// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/ledger"
)

type Info struct {
	GenesisID    chef.Bytes32 `json:"genesisID"`
	Network      string       `json:"network"`
	Tick         uint64       `json:"tick"`
	OpSeq        uint64       `json:"opSeq"`
	TickInterval uint64       `json:"tickInterval"`
	Version      string       `json:"version"`
}

type TickRequest struct {
	Ticks uint64 `json:"ticks"`
}

type TickResult struct {
	Tick uint64 `json:"tick"`
}

type Node struct {
	ledger *ledger.Ledger
	clock  *clock.Manual // nil unless the clock is advanced by hand
	info   Info
}

// New creates the node api. Ticks can only be advanced over http when manual is not nil.
func New(ledger *ledger.Ledger, manual *clock.Manual, info Info) *Node {
	return &Node{
		ledger,
		manual,
		info,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	info := n.info
	info.GenesisID = n.ledger.GenesisID()
	info.Tick = n.ledger.Tick()
	info.OpSeq = n.ledger.OpSeq()
	return utils.WriteJSON(w, &info)
}

func (n *Node) handleAdvanceTick(w http.ResponseWriter, req *http.Request) error {
	if n.clock == nil {
		return utils.Forbidden(errors.New("tick is driven by wall time"))
	}
	var body TickRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Ticks == 0 {
		body.Ticks = 1
	}
	return utils.WriteJSON(w, &TickResult{n.clock.Advance(body.Ticks)})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("GET /node/info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
	sub.Path("/tick").
		Methods(http.MethodPost).
		Name("POST /node/tick").
		HandlerFunc(utils.WrapHandlerFunc(n.handleAdvanceTick))
}
