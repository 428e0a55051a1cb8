// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client for the protocol REST API: reports,
// stakes, votes, recovery wallets, accounts, transfers, configuration and events.
package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/lossless-cash/lossless-go/api/accounts"
	"github.com/lossless-cash/lossless-go/api/config"
	"github.com/lossless-cash/lossless-go/api/events"
	"github.com/lossless-cash/lossless-go/api/reports"
	"github.com/lossless-cash/lossless-go/api/transfers"
	"github.com/lossless-cash/lossless-go/lss"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNot200Status = errors.New("not 200 status code")
)

// StatusError is returned for any response other than 200 OK.
// It matches ErrNot200Status, and ErrNotFound for 404 responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNot200Status || (target == ErrNotFound && e.Code == http.StatusNotFound)
}

// Client talks to one API endpoint.
type Client struct {
	url       string
	c         *http.Client
	genesisID string
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

// PinGenesis makes the server refuse every following request unless it runs genesisID.
func (c *Client) PinGenesis(genesisID lss.Bytes32) {
	c.genesisID = genesisID.String()
}

func (c *Client) rawHTTPRequest(method, url string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to create request - %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.genesisID != "" {
		req.Header.Set("X-Genesis-Id", c.genesisID)
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to do request - %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("unable to read response body - %w", err)
	}
	return respBody, resp.StatusCode, nil
}

func (c *Client) httpDo(method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("unable to marshal payload - %w", err)
		}
		body = bytes.NewReader(data)
	}
	respBody, code, err := c.rawHTTPRequest(method, c.url+path, body)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, &StatusError{Code: code, Message: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

func call[T any](c *Client, method, path string, payload any, what string) (*T, error) {
	body, err := c.httpDo(method, path, payload)
	if err != nil {
		return nil, fmt.Errorf("unable to %s - %w", what, err)
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s result - %w", what, err)
	}
	return &v, nil
}

func amount(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

func reportPath(id uint64, suffix string) string {
	return "/reports/" + strconv.FormatUint(id, 10) + suffix
}

// RawHTTPGet sends a raw HTTP GET request to the path.
func (c *Client) RawHTTPGet(path string) ([]byte, int, error) {
	return c.rawHTTPRequest(http.MethodGet, c.url+path, nil)
}

// GetReportCount returns the number of reports ever opened.
func (c *Client) GetReportCount() (uint64, error) {
	res, err := call[reports.Count](c, http.MethodGet, "/reports", nil, "get report count")
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// OpenReport reports reported on behalf of reporter and returns the report id.
func (c *Client) OpenReport(reporter, reported lss.Address) (uint64, error) {
	res, err := call[reports.Created](c, http.MethodPost, "/reports", &reports.OpenReport{Reporter: &reporter, Reported: &reported}, "open report")
	if err != nil {
		return 0, err
	}
	return res.ID, nil
}

func (c *Client) GetReport(id uint64) (*reports.Detail, error) {
	return call[reports.Detail](c, http.MethodGet, reportPath(id, ""), nil, "get report")
}

func (c *Client) SecondReport(caller lss.Address, id uint64, second lss.Address) (*reports.Detail, error) {
	return call[reports.Detail](c, http.MethodPost, reportPath(id, "/second"), &reports.SecondReport{Caller: &caller, Second: &second}, "second report")
}

func (c *Client) ExpireReport(id uint64) (*reports.Detail, error) {
	return call[reports.Detail](c, http.MethodPost, reportPath(id, "/expire"), nil, "expire report")
}

func (c *Client) GetStakes(id uint64) ([]*reports.Stake, error) {
	res, err := call[[]*reports.Stake](c, http.MethodGet, reportPath(id, "/stakes"), nil, "get stakes")
	if err != nil {
		return nil, err
	}
	return *res, nil
}

// Stake places a stake; side is "accuse" or "defend".
func (c *Client) Stake(staker lss.Address, id uint64, value *big.Int, side string) (*reports.Detail, error) {
	return call[reports.Detail](c, http.MethodPost, reportPath(id, "/stakes"), &reports.PlaceStake{Staker: &staker, Amount: amount(value), Side: side}, "stake")
}

func (c *Client) Settle(id uint64) (*reports.Detail, error) {
	return call[reports.Detail](c, http.MethodPost, reportPath(id, "/settle"), nil, "settle")
}

func (c *Client) GetVotes(id uint64) (*reports.Proceeding, error) {
	return call[reports.Proceeding](c, http.MethodGet, reportPath(id, "/votes"), nil, "get votes")
}

func (c *Client) Vote(voter lss.Address, id uint64, class, verdict string) (*reports.Detail, error) {
	return call[reports.Detail](c, http.MethodPost, reportPath(id, "/votes"), &reports.CastVote{Voter: &voter, Class: class, Verdict: verdict}, "vote")
}

func (c *Client) ProposeWallet(caller lss.Address, id uint64, wallet lss.Address) (*reports.Detail, error) {
	return call[reports.Detail](c, http.MethodPost, reportPath(id, "/wallet"), &reports.ProposeWallet{Caller: &caller, Wallet: &wallet}, "propose wallet")
}

func (c *Client) RejectWallet(caller lss.Address, id uint64, class string) (*reports.Detail, error) {
	return call[reports.Detail](c, http.MethodPost, reportPath(id, "/wallet/reject"), &reports.RejectWallet{Caller: &caller, Class: class}, "reject wallet")
}

// RetrieveFunds moves the frozen funds to the proposed wallet and returns the amount moved.
func (c *Client) RetrieveFunds(caller lss.Address, id uint64) (*big.Int, error) {
	res, err := call[reports.Retrieved](c, http.MethodPost, reportPath(id, "/wallet/retrieve"), &reports.Caller{Caller: &caller}, "retrieve funds")
	if err != nil {
		return nil, err
	}
	return (*big.Int)(res.Amount), nil
}

func (c *Client) GetAccount(addr lss.Address) (*accounts.Account, error) {
	return call[accounts.Account](c, http.MethodGet, "/accounts/"+addr.String(), nil, "retrieve account")
}

func (c *Client) SetStatus(caller, addr lss.Address, status string) (*accounts.Account, error) {
	return call[accounts.Account](c, http.MethodPut, "/accounts/"+addr.String()+"/status", &accounts.SetStatus{Caller: &caller, Status: status}, "set status")
}

func (c *Client) Transfer(from, to lss.Address, value *big.Int) error {
	_, err := call[transfers.CheckResult](c, http.MethodPost, "/transfers", &transfers.Transfer{From: &from, To: &to, Amount: amount(value)}, "transfer")
	return err
}

func (c *Client) CheckTransfer(from, to lss.Address, value *big.Int) (*transfers.CheckResult, error) {
	return call[transfers.CheckResult](c, http.MethodPost, "/transfers/check", &transfers.Transfer{From: &from, To: &to, Amount: amount(value)}, "check transfer")
}

func (c *Client) GetConfig() (*config.Config, error) {
	return call[config.Config](c, http.MethodGet, "/config", nil, "get config")
}

func (c *Client) GetConfigVersion(version uint64) (*config.Config, error) {
	return call[config.Config](c, http.MethodGet, "/config/history/"+strconv.FormatUint(version, 10), nil, "get config version")
}

// UpdateConfig sets one configuration field, see config.Update for the value forms.
func (c *Client) UpdateConfig(caller lss.Address, field string, value any) (*config.Config, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal value - %w", err)
	}
	return call[config.Config](c, http.MethodPut, "/config/"+field, &config.Update{Caller: &caller, Value: raw}, "update config")
}

func (c *Client) GetToken() (*config.Token, error) {
	return call[config.Token](c, http.MethodGet, "/config/token", nil, "get token")
}

func (c *Client) Pause(caller lss.Address) (*config.Token, error) {
	return call[config.Token](c, http.MethodPost, "/config/pause", &config.Caller{Caller: &caller}, "pause")
}

func (c *Client) Unpause(caller lss.Address) (*config.Token, error) {
	return call[config.Token](c, http.MethodPost, "/config/unpause", &config.Caller{Caller: &caller}, "unpause")
}

func (c *Client) members(method, path string, payload any, what string) ([]lss.Address, error) {
	res, err := call[[]lss.Address](c, method, path, payload, what)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *Client) GetCommittee() ([]lss.Address, error) {
	return c.members(http.MethodGet, "/config/committee", nil, "get committee")
}

func (c *Client) AddCommitteeMembers(caller lss.Address, members []lss.Address) ([]lss.Address, error) {
	return c.members(http.MethodPost, "/config/committee", &config.Members{Caller: &caller, Members: members}, "add committee members")
}

func (c *Client) RemoveCommitteeMembers(caller lss.Address, members []lss.Address) ([]lss.Address, error) {
	return c.members(http.MethodDelete, "/config/committee", &config.Members{Caller: &caller, Members: members}, "remove committee members")
}

func (c *Client) GetRoleMembers(role string) ([]lss.Address, error) {
	return c.members(http.MethodGet, "/config/roles/"+role, nil, "get role members")
}

func (c *Client) GrantRole(caller lss.Address, role string, addr lss.Address) ([]lss.Address, error) {
	return c.members(http.MethodPost, "/config/roles/"+role, &config.Member{Caller: &caller, Address: &addr}, "grant role")
}

func (c *Client) RevokeRole(caller lss.Address, role string, addr lss.Address) ([]lss.Address, error) {
	return c.members(http.MethodDelete, "/config/roles/"+role, &config.Member{Caller: &caller, Address: &addr}, "revoke role")
}

// FilterEvents queries the event log, see events.ParseFilter for the parameters.
func (c *Client) FilterEvents(query url.Values) ([]*events.Event, error) {
	path := "/events"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	res, err := call[[]*events.Event](c, http.MethodGet, path, nil, "filter events")
	if err != nil {
		return nil, err
	}
	return *res, nil
}
