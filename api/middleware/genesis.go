// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"net/http"
	"strings"

	"github.com/lossless-cash/lossless-go/lss"
)

// GenesisIDHeader identifies the protocol instance a request is meant for.
const GenesisIDHeader = "X-Genesis-Id"

// GenesisMiddleware stamps responses with the genesis id and refuses requests
// that name another instance.
func GenesisMiddleware(genesisID lss.Bytes32) func(http.Handler) http.Handler {
	expected := genesisID.String()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(GenesisIDHeader, expected)
			if actual := r.Header.Get(GenesisIDHeader); actual != "" && !strings.EqualFold(actual, expected) {
				http.Error(w, "genesis id mismatch", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
