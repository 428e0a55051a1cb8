// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrRevert(t *testing.T) {
	err := Newf(ErrDuplicateReport, "address %s has open report %d", "0xabc", 3)
	assert.Equal(t, "duplicate report: address 0xabc has open report 3", err.Error())
	assert.True(t, errors.Is(err, ErrDuplicateReport))
	assert.False(t, errors.Is(err, ErrReportNotOpen))
	assert.Equal(t, CodeDuplicateReport, err.Code())
	assert.Equal(t, "unauthorized", ErrUnauthorized.Error())
}

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.True(t, IsRevertErr(ErrPaused))

	wrapped := pkgerrors.Wrap(ErrAlreadyVoted, "cast vote")
	assert.True(t, IsRevertErr(wrapped))
	assert.True(t, errors.Is(wrapped, ErrAlreadyVoted))
	assert.Equal(t, CodeAlreadyVoted, CodeOf(wrapped))
	assert.Equal(t, Code(0), CodeOf(errors.New("plain")))
}
