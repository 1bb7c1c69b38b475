// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state keeps the storage slots of every builtin, journaled for
// checkpoint and revert, and flushes the net changes into a kv store.
package state
