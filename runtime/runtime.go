// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/jonboulle/clockwork"
	pkgerrors "github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/builtin"
	"github.com/lossless-cash/lossless-go/builtin/reporting"
	"github.com/lossless-cash/lossless-go/builtin/reverts"
	"github.com/lossless-cash/lossless-go/co"
	"github.com/lossless-cash/lossless-go/genesis"
	"github.com/lossless-cash/lossless-go/kv"
	"github.com/lossless-cash/lossless-go/log"
	"github.com/lossless-cash/lossless-go/logdb"
	"github.com/lossless-cash/lossless-go/lss"
	"github.com/lossless-cash/lossless-go/state"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metaBucket   = kv.Bucket("m")
	genesisIDKey = []byte("genesis-id")

	errClosed = errors.New("runtime closed")
)

// Runtime executes protocol calls one at a time. Every call either commits all of its
// effects or none of them; committed events are logged and published to subscribers.
type Runtime struct {
	mu        sync.Mutex
	state     *state.State
	contracts *builtin.Contracts
	logDB     *logdb.LogDB
	clock     clockwork.Clock
	genesisID lss.Bytes32
	closed    bool

	feed    event.Feed
	scope   event.SubscriptionScope
	pending chan []*lss.Event
	goes    co.Goes
}

// New opens the protocol state kept in db. An empty db is initialized from gen;
// a db built from another genesis is refused. logDB may be nil.
func New(db kv.GetPutter, gen *genesis.Genesis, logDB *logdb.LogDB, clock clockwork.Clock) (*Runtime, error) {
	genesisID, err := gen.ID()
	if err != nil {
		return nil, err
	}
	st := state.New(db)
	meta := metaBucket.NewStore(db)

	stored, err := meta.Get(genesisIDKey)
	switch {
	case err == nil:
		if lss.BytesToBytes32(stored) != genesisID {
			return nil, pkgerrors.Errorf("genesis mismatch: database built from %v, given %v", lss.BytesToBytes32(stored), genesisID)
		}
	case meta.IsNotFound(err):
		events, err := gen.Build(st)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "build genesis")
		}
		if logDB != nil {
			if err := logDB.Insert(events); err != nil {
				return nil, pkgerrors.Wrap(err, "log genesis events")
			}
		}
		if err := meta.Put(genesisIDKey, genesisID.Bytes()); err != nil {
			return nil, pkgerrors.Wrap(err, "save genesis id")
		}
		logger.Info("initialized protocol state", "genesis", genesisID, "events", len(events))
	default:
		return nil, pkgerrors.Wrap(err, "read genesis id")
	}

	rt := &Runtime{
		state:     st,
		contracts: builtin.Bind(st),
		logDB:     logDB,
		clock:     clock,
		genesisID: genesisID,
		pending:   make(chan []*lss.Event, 1024),
	}
	rt.goes.Go(rt.publishLoop)
	return rt, nil
}

// GenesisID returns the id of the genesis the state was built from.
func (rt *Runtime) GenesisID() lss.Bytes32 {
	return rt.genesisID
}

// LogDB returns the event log, nil if events are not logged.
func (rt *Runtime) LogDB() *logdb.LogDB {
	return rt.logDB
}

// Now returns the protocol time in unix seconds.
func (rt *Runtime) Now() uint64 {
	return uint64(rt.clock.Now().Unix())
}

// SubscribeEvents delivers the events of every committed call, in commit order.
func (rt *Runtime) SubscribeEvents(ch chan []*lss.Event) event.Subscription {
	return rt.scope.Track(rt.feed.Subscribe(ch))
}

func (rt *Runtime) publishLoop() {
	for events := range rt.pending {
		rt.feed.Send(events)
	}
}

// Close stops publishing events and ends all subscriptions.
func (rt *Runtime) Close() {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return
	}
	rt.closed = true
	close(rt.pending)
	rt.mu.Unlock()

	rt.goes.Wait()
	rt.scope.Close()
	logger.Debug("closed")
}

// exec runs fn as one atomic call. A report id other than zero marks the report the call
// acts on: if it is open past its deadline it is expired and committed instead, and the
// call fails with ReportExpired.
func (rt *Runtime) exec(op string, reportID uint64, fn func(c *builtin.Contracts, now uint64) error) error {
	return rt.execFor(op, reportID, nil, fn)
}

// execFor is exec for calls touching accounts: open reports against any of parties
// that are past their deadline are expired and committed before fn runs.
func (rt *Runtime) execFor(op string, reportID uint64, parties []lss.Address, fn func(c *builtin.Contracts, now uint64) error) (err error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return errClosed
	}

	start := rt.clock.Now()
	now := uint64(start.Unix())
	defer func() {
		metricCallDuration().ObserveWithLabels(rt.clock.Since(start).Milliseconds(), map[string]string{"op": op})
		metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": resultLabel(err)})
	}()

	if reportID != 0 {
		expired, err := rt.contracts.Reporting.ExpireIfDue(reportID, now)
		if err != nil {
			rt.state.Discard()
			return err
		}
		if expired {
			if err := rt.commit(now); err != nil {
				return err
			}
			return reverts.Newf(reverts.ErrReportExpired, "report %d expired", reportID)
		}
	}

	if len(parties) > 0 {
		expired, err := rt.expireDue(parties, now)
		if err != nil {
			rt.state.Discard()
			return err
		}
		if expired {
			if err := rt.commit(now); err != nil {
				return err
			}
		}
	}

	checkpoint := rt.state.NewCheckpoint()
	err = fn(rt.contracts, now)
	if err != nil && !errors.Is(err, reverts.ErrReportExpired) {
		rt.state.RevertTo(checkpoint)
		if !reverts.IsRevertErr(err) {
			logger.Warn("call failed", "op", op, "err", err)
		}
		return err
	}
	if cerr := rt.commit(now); cerr != nil {
		return cerr
	}
	return err
}

func (rt *Runtime) expireDue(addrs []lss.Address, now uint64) (expired bool, err error) {
	for _, addr := range addrs {
		id, err := rt.contracts.Reporting.OpenReportOf(addr)
		if err != nil {
			return false, err
		}
		if id == 0 {
			continue
		}
		ok, err := rt.contracts.Reporting.ExpireIfDue(id, now)
		if err != nil {
			return false, err
		}
		expired = expired || ok
	}
	return expired, nil
}

func (rt *Runtime) commit(now uint64) error {
	events, err := rt.state.Commit()
	if err != nil {
		rt.state.Discard()
		return pkgerrors.Wrap(err, "commit state")
	}
	if len(events) == 0 {
		return nil
	}
	for _, ev := range events {
		ev.Timestamp = now
		if ev.Contract == builtin.Reporting.Address {
			switch ev.Name {
			case "ReportExpired":
				metricReports().AddWithLabel(1, map[string]string{"status": reporting.StatusExpired.String()})
			case "ReportResolved":
				status := reporting.StatusResolvedValid
				if ev.Detail == lss.VerdictInnocent.String() {
					status = reporting.StatusResolvedInvalid
				}
				metricReports().AddWithLabel(1, map[string]string{"status": status.String()})
			}
		}
	}
	metricEvents().Add(int64(len(events)))

	if rt.logDB != nil {
		if err := rt.logDB.Insert(events); err != nil {
			logger.Warn("failed to log events", "err", err, "count", len(events))
		}
	}
	rt.pending <- events
	return nil
}

// view runs a read-only fn against the committed state.
func view[T any](rt *Runtime, fn func(c *builtin.Contracts, now uint64) (T, error)) (T, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return fn(rt.contracts, uint64(rt.clock.Now().Unix()))
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := reverts.CodeOf(err); code != 0 {
		return code.String()
	}
	return "error"
}
