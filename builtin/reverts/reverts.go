// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Code classifies a protocol revert.
type Code uint8

const (
	CodeUnauthorized Code = iota + 1
	CodeTransferBlocked
	CodeDuplicateReport
	CodeReportNotOpen
	CodeReportExpired
	CodeReportAlreadyResolved
	CodeReportNotResolved
	CodeInsufficientBond
	CodeInsufficientStake
	CodeAlreadyVoted
	CodeInvalidConfiguration
	CodePaused
	CodeInvalidReport
	CodeInvalidVote
	CodeStakeSideConflict
	CodeAlreadySettled
	CodeInvalidProposal
	CodeInsufficientBalance
	CodeReportNotFound
)

var codeNames = map[Code]string{
	CodeUnauthorized:          "unauthorized",
	CodeTransferBlocked:       "transfer blocked",
	CodeDuplicateReport:       "duplicate report",
	CodeReportNotOpen:         "report not open",
	CodeReportExpired:         "report expired",
	CodeReportAlreadyResolved: "report already resolved",
	CodeReportNotResolved:     "report not resolved",
	CodeInsufficientBond:      "insufficient bond",
	CodeInsufficientStake:     "insufficient stake",
	CodeAlreadyVoted:          "already voted",
	CodeInvalidConfiguration:  "invalid configuration",
	CodePaused:                "paused",
	CodeInvalidReport:         "invalid report",
	CodeInvalidVote:           "invalid vote",
	CodeStakeSideConflict:     "stake side conflict",
	CodeAlreadySettled:        "already settled",
	CodeInvalidProposal:       "invalid proposal",
	CodeInsufficientBalance:   "insufficient balance",
	CodeReportNotFound:        "report not found",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

var (
	ErrUnauthorized          = New(CodeUnauthorized, "")
	ErrTransferBlocked       = New(CodeTransferBlocked, "")
	ErrDuplicateReport       = New(CodeDuplicateReport, "")
	ErrReportNotOpen         = New(CodeReportNotOpen, "")
	ErrReportExpired         = New(CodeReportExpired, "")
	ErrReportAlreadyResolved = New(CodeReportAlreadyResolved, "")
	ErrReportNotResolved     = New(CodeReportNotResolved, "")
	ErrInsufficientBond      = New(CodeInsufficientBond, "")
	ErrInsufficientStake     = New(CodeInsufficientStake, "")
	ErrAlreadyVoted          = New(CodeAlreadyVoted, "")
	ErrInvalidConfiguration  = New(CodeInvalidConfiguration, "")
	ErrPaused                = New(CodePaused, "")
	ErrInvalidReport         = New(CodeInvalidReport, "")
	ErrInvalidVote           = New(CodeInvalidVote, "")
	ErrStakeSideConflict     = New(CodeStakeSideConflict, "")
	ErrAlreadySettled        = New(CodeAlreadySettled, "")
	ErrInvalidProposal       = New(CodeInvalidProposal, "")
	ErrInsufficientBalance   = New(CodeInsufficientBalance, "")
	ErrReportNotFound        = New(CodeReportNotFound, "")
)

// ErrRevert aborts a protocol call. Matching with errors.Is compares codes only.
type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

// Newf creates a revert with the code of base and a formatted detail message.
func Newf(base *ErrRevert, format string, args ...any) *ErrRevert {
	return New(base.code, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.code.String()
	}
	return e.code.String() + ": " + e.message
}

func (e *ErrRevert) Code() Code {
	return e.code
}

func (e *ErrRevert) Message() string {
	return e.message
}

func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.code == e.code
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// CodeOf returns the revert code carried by err, or zero if err is not a revert.
func CodeOf(err error) Code {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code
	}
	return 0
}
