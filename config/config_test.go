// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	policy, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if policy.MaxTxVersion != defaultMaxTxVersion {
		t.Fatalf("MaxTxVersion = %d, want %d", policy.MaxTxVersion, defaultMaxTxVersion)
	}
	if policy.MaxPoolSize != defaultMaxPoolSize {
		t.Fatalf("MaxPoolSize = %d, want %d", policy.MaxPoolSize, defaultMaxPoolSize)
	}
}

func TestLoadOverridesFromFlags(t *testing.T) {
	policy, err := Load([]string{"--policy.maxtxversion=3", "--policy.minrelayfee=5000"})
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if policy.MaxTxVersion != 3 {
		t.Fatalf("MaxTxVersion = %d, want 3", policy.MaxTxVersion)
	}
	if policy.MinRelayFeeRate != 5000 {
		t.Fatalf("MinRelayFeeRate = %d, want 5000", policy.MinRelayFeeRate)
	}
}
