// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config loads the mempool policy tunables (spec.md §6.3's
// "consensus parameters supplied externally" seam) from CLI flags,
// mirroring mining/simulator/config.go's go-flags parser.
package config

import (
	"github.com/jessevdk/go-flags"

	"github.com/btcforge/txcore/mempool"
)

const (
	defaultMaxTxVersion    = 2
	defaultMaxOrphanAge    = 15 * 60
	defaultMaxPoolSize     = 100000
	defaultMinRelayFeeRate = 1
)

// Policy mirrors the CLI-tunable fields of mempool.Policy. Flags are
// spelled out individually rather than embedding mempool.Policy so the
// long/description struct tags stay next to the field they document.
type Policy struct {
	MaxTxVersion    int32  `long:"maxtxversion" description:"Maximum transaction version accepted into the pool" default:"2"`
	MaxOrphanAge    int64  `long:"maxorphanage" description:"Maximum age in seconds of an orphan transaction before eviction"`
	MaxPoolSize     int    `long:"maxpoolsize" description:"Maximum number of transactions retained in the pool"`
	MinRelayFeeRate uint64 `long:"minrelayfee" description:"Minimum fee rate, in satoshi per byte, for relay/acceptance"`
}

// config is the top-level flags target parseConfig fills in, in the
// style of mining/simulator's own config struct.
type config struct {
	Policy Policy `group:"Policy" namespace:"policy"`
}

// Load parses policy tunables from argv (os.Args[1:] in the common
// case) and returns the resulting mempool.Policy, falling back to
// mempool.DefaultPolicy's values for anything left unset.
func Load(argv []string) (mempool.Policy, error) {
	cfg := &config{
		Policy: Policy{
			MaxTxVersion:    defaultMaxTxVersion,
			MaxOrphanAge:    defaultMaxOrphanAge,
			MaxPoolSize:     defaultMaxPoolSize,
			MinRelayFeeRate: defaultMinRelayFeeRate,
		},
	}

	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	if _, err := parser.ParseArgs(argv); err != nil {
		return mempool.Policy{}, err
	}

	return mempool.Policy{
		MaxTxVersion:    cfg.Policy.MaxTxVersion,
		MaxOrphanAge:    cfg.Policy.MaxOrphanAge,
		MaxPoolSize:     cfg.Policy.MaxPoolSize,
		MinRelayFeeRate: cfg.Policy.MinRelayFeeRate,
	}, nil
}
