// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// levelHandler filters records against a LevelVar read on every call, so the
// threshold can change after the handler is installed.
type levelHandler struct {
	lvl   *slog.LevelVar
	inner slog.Handler
}

// NewTerminalHandlerWithLevel returns a human readable handler which only outputs
// records at or above the current value of lvl.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return &levelHandler{
		lvl:   lvl,
		inner: ethlog.NewTerminalHandlerWithLevel(wr, LevelTrace, useColor),
	}
}

// JSONHandlerWithLevel returns a JSON handler which only outputs records at or
// above the current value of lvl.
func JSONHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &levelHandler{
		lvl:   lvl,
		inner: ethlog.JSONHandlerWithLevel(wr, LevelTrace),
	}
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{lvl: h.lvl, inner: h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{lvl: h.lvl, inner: h.inner.WithGroup(name)}
}
