// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert by the precondition it violates.
type Kind uint8

const (
	ArithmeticOverflow Kind = iota + 1
	InsufficientStake
	InsufficientBalance
	InsufficientReserve
	InvalidFee
	DuplicateAsset
	NotStarted
	TooEarly
	AlreadySettled
	Unauthorized
	PoolNotFound
	InvalidAmount
)

var kindNames = map[Kind]string{
	ArithmeticOverflow:  "ArithmeticOverflow",
	InsufficientStake:   "InsufficientStake",
	InsufficientBalance: "InsufficientBalance",
	InsufficientReserve: "InsufficientReserve",
	InvalidFee:          "InvalidFee",
	DuplicateAsset:      "DuplicateAsset",
	NotStarted:          "NotStarted",
	TooEarly:            "TooEarly",
	AlreadySettled:      "AlreadySettled",
	Unauthorized:        "Unauthorized",
	PoolNotFound:        "PoolNotFound",
	InvalidAmount:       "InvalidAmount",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ErrRevert aborts an operation. All of its state changes are discarded.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches any revert of the same kind, so errors.Is(err, reverts.New(kind, "")) works.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.kind == e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var re *ErrRevert
	if errors.As(e, &re) {
		return re != nil
	}
	return false
}

// KindOf returns the kind of a revert error.
func KindOf(err error) (Kind, bool) {
	var re *ErrRevert
	if errors.As(err, &re) && re != nil {
		return re.kind, true
	}
	return 0, false
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
