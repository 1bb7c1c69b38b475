// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/yieldchef/chef/api/utils"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/ledger"
	"github.com/yieldchef/chef/log"
	"github.com/yieldchef/chef/tx"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	ledger   *ledger.Ledger
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(ledger *ledger.Ledger, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		ledger: ledger,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, u.Host) || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func parseAddress(query url.Values, key string) (*chef.Address, error) {
	s := query.Get(key)
	if s == "" {
		return nil, nil
	}
	addr, err := chef.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, key))
	}
	return &addr, nil
}

func parseEventFilter(query url.Values) (*EventFilter, error) {
	addr, err := parseAddress(query, "addr")
	if err != nil {
		return nil, err
	}
	filter := &EventFilter{Address: addr}
	for i, key := range []string{"t0", "t1", "t2", "t3", "t4"} {
		s := query.Get(key)
		if s == "" {
			continue
		}
		topic, err := chef.ParseBytes32(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, key))
		}
		filter.Topics[i] = &topic
	}
	return filter, nil
}

func parseTransferFilter(query url.Values) (*TransferFilter, error) {
	token, err := parseAddress(query, "token")
	if err != nil {
		return nil, err
	}
	sender, err := parseAddress(query, "sender")
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddress(query, "recipient")
	if err != nil {
		return nil, err
	}
	return &TransferFilter{token, sender, recipient}, nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader messageReader
		query  = req.URL.Query()
	)
	switch mux.Vars(req)["subject"] {
	case "event":
		filter, err := parseEventFilter(query)
		if err != nil {
			return err
		}
		reader = eventReader(filter)
	case "transfer":
		filter, err := parseTransferFilter(query)
		if err != nil {
			return err
		}
		reader = transferReader(filter)
	case "receipt":
		reader = receiptReader()
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}

	// subscribe before the handshake completes, so no receipt is missed
	receipts := make(chan *tx.Receipt, 64)
	sub := s.ledger.SubscribeReceipts(receipts)
	defer sub.Unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	var closeMsg []byte
	if err := s.pipe(conn, reader, receipts, sub); err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	}
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)); err != nil {
		logger.Debug("write close message", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader messageReader, receipts <-chan *tx.Receipt, sub event.Subscription) error {
	closed := make(chan struct{})
	// the read loop handles pongs and detects a closed peer
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read", "err", err)
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case err := <-sub.Err():
			return err
		case r := <-receipts:
			for _, msg := range reader(r) {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					return err
				}
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close closes all subscription connections.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions/{subject}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
