// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/co"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/kv"
	"github.com/yieldchef/chef/ledger"
	"github.com/yieldchef/chef/logdb"
	"github.com/yieldchef/chef/lvldb"
	"github.com/yieldchef/chef/metrics"
)

func selectGenesis(ctx *cli.Context, solo bool) *genesis.Genesis {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		if solo {
			return genesis.NewDevnet()
		}
		cli.ShowAppHelp(ctx)
		fmt.Println("genesis flag not specified")
		os.Exit(1)
	}

	gen, err := genesis.LoadCustomGenesis(path)
	if err != nil {
		fatal(fmt.Sprintf("load genesis file: %v", err))
	}
	customGen, err := genesis.NewCustomNet(gen)
	if err != nil {
		fatal(fmt.Sprintf("build genesis: %v", err))
	}
	return customGen
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := makeDataDir(ctx)

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(ctx *cli.Context, dir string) *lvldb.LevelDB {
	cacheMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		fatal(fmt.Sprintf("parse cache flag: %v", err))
	}
	cacheMB = normalizeCacheSize(cacheMB)
	logger.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", path, err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openLogDB(dir string) *logdb.LogDB {
	path := filepath.Join(dir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", path, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

func openLedger(ctx *cli.Context, store kv.Store, gene *genesis.Genesis, clk clock.Source, logDB *logdb.LogDB) *ledger.Ledger {
	stateCache, err := readIntFromUInt64Flag(ctx.Uint64(stateCacheFlag.Name))
	if err != nil {
		fatal(fmt.Sprintf("parse state cache flag: %v", err))
	}
	l, err := ledger.New(store, gene, clk, logDB, ledger.Options{CacheSize: stateCache})
	if err != nil {
		fatal(fmt.Sprintf("open ledger: %v", err))
	}
	return l
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}
}

func startMetricsServer(addr string) (string, func()) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen metrics API addr [%v]: %v", addr, err))
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}
}

func makeName(name string) string {
	return fmt.Sprintf("%s/v%s/%s/%s", name, fullVersion(), runtime.GOOS, runtime.Version())
}

func printStartupMessage(
	gene *genesis.Genesis,
	l *ledger.Ledger,
	dataDir string,
	apiURL string,
	metricsURL string,
	adminURL string,
) {
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Ledger       [ tick %v op #%v ]
    Tick         [ every %vs since %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		makeName("Chef"),
		gene.ID(), gene.Name(),
		l.Tick(), l.OpSeq(),
		gene.TickInterval(), time.Unix(int64(gene.LaunchTime()), 0),
		dataDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL))
}

func orDisabled(url string) string {
	if url == "" {
		return "Disabled"
	}
	return url
}

func printSoloStartupMessage(
	gene *genesis.Genesis,
	l *ledger.Ledger,
	dataDir string,
	apiURL string,
	tickInterval time.Duration,
) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	ticks := "on demand"
	if tickInterval > 0 {
		ticks = "every " + tickInterval.String()
	}

	info := fmt.Sprintf(`Starting %v
    Network     [ %v %v ]
    Ledger      [ tick %v op #%v ]
    Ticks       [ %v ]
    Data dir    [ %v ]
    API portal  [ %v ]`,
		makeName("Chef solo"),
		gene.ID(), gene.Name(),
		l.Tick(), l.OpSeq(),
		ticks,
		dataDir,
		apiURL)

	info += tableHead

	for _, a := range genesis.DevAccounts() {
		info += fmt.Sprintf(tableContent,
			a.Address,
			chef.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}
