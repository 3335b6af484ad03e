// perf/sr22t.go
// Copyright(c) 2025 perfbrief contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package perf

import (
	_ "embed"
	"sync"

	"github.com/brunoga/deep"
)

//go:embed sr22t.json
var sr22tJSON []byte

// The embedded dataset is validated at first use; it ships with the binary,
// so a load failure is a build defect and panics.
var loadSR22T = sync.OnceValue(func() *TableSet {
	ts, err := LoadTableSet(sr22tJSON)
	if err != nil {
		panic(err)
	}
	return ts
})

// SR22T returns the embedded Cirrus SR22T dataset (3600 lb max gross, 2023
// POH revision). Callers receive a deep copy and may mutate it freely.
func SR22T() *TableSet {
	return deep.MustCopy(loadSR22T())
}
