// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/yieldchef/chef/admin"
	"github.com/yieldchef/chef/api"
	"github.com/yieldchef/chef/api/node"
	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/co"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/health"
	"github.com/yieldchef/chef/ledger"
	"github.com/yieldchef/chef/log"
	"github.com/yieldchef/chef/logdb"
	"github.com/yieldchef/chef/lvldb"
	"github.com/yieldchef/chef/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Chef",
		Usage:     "Reward accounting and staking ledger of a yield farm",
		Copyright: "2025 YieldChef",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			cacheFlag,
			stateCacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			skipLogsFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			disableClockSyncFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run a ledger on a manually advanced clock for test & dev",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					cacheFlag,
					stateCacheFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiLogsLimitFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					apiLog5xxErrorsFlag,
					skipLogsFlag,
					pprofFlag,
					verbosityFlag,
					jsonLogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					enableAdminFlag,
					adminAddrFlag,
					onDemandFlag,
					tickIntervalFlag,
					persistFlag,
				},
				Action: soloAction,
			},
			{
				Name:   "genesis",
				Usage:  "print the devnet genesis as a template for custom networks",
				Flags:  []cli.Flag{outputFlag},
				Action: genesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// services are the optional servers shared by the default and solo actions.
type services struct {
	apiURL     string
	metricsURL string
	adminURL   string
	closers    []func()
}

func (s *services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func startServices(
	ctx *cli.Context,
	l *ledger.Ledger,
	gene *genesis.Genesis,
	manual *clock.Manual,
	logLevel *slog.LevelVar,
	h *health.Health,
) *services {
	var svc services

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFn := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		svc.metricsURL = url
		svc.closers = append(svc.closers, func() { logger.Info("stopping metrics server..."); closeFn() })
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFn, err := admin.StartServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, h)
		if err != nil {
			fatal(fmt.Sprintf("start admin server: %v", err))
		}
		svc.adminURL = url
		svc.closers = append(svc.closers, func() { logger.Info("stopping admin server..."); closeFn() })
	}

	network := gene.Name()
	if manual != nil {
		network += " (solo)"
	}
	handler, closeSubs := api.New(l, manual, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		SkipLogs:             ctx.Bool(skipLogsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		Node: node.Info{
			Network:      network,
			TickInterval: gene.TickInterval(),
			Version:      fullVersion(),
		},
	})
	url, closeAPI := startAPIServer(ctx, handler)
	svc.apiURL = url
	svc.closers = append(svc.closers, func() {
		logger.Info("stopping API server...")
		closeSubs()
		closeAPI()
	})
	return &svc
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return fmt.Errorf("parse verbosity flag: %w", err)
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	gene := selectGenesis(ctx, false)
	instanceDir := makeInstanceDir(ctx, gene)

	mainDB := openMainDB(ctx, instanceDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	var logDB *logdb.LogDB
	if !ctx.Bool(skipLogsFlag.Name) {
		logDB = openLogDB(instanceDir)
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	tickInterval := time.Duration(gene.TickInterval()) * time.Second
	clk := clock.NewInterval(time.Unix(int64(gene.LaunchTime()), 0), tickInterval)

	l := openLedger(ctx, mainDB, gene, clk, logDB)
	defer l.Close()

	h := health.New(tickInterval)
	h.LedgerReady(true)

	svc := startServices(ctx, l, gene, nil, logLevel, h)
	defer svc.close()

	printStartupMessage(gene, l, instanceDir, svc.apiURL, svc.metricsURL, svc.adminURL)

	clockSync := !ctx.Bool(disableClockSyncFlag.Name)
	var goes co.Goes
	goes.GoCtx(func(ctx context.Context) {
		houseKeeping(ctx, l, h, tickInterval, clockSync)
	})

	<-exitSignal.Done()
	goes.Stop()
	return nil
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return fmt.Errorf("parse verbosity flag: %w", err)
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	gene := selectGenesis(ctx, true)

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, gene)
		mainDB = openMainDB(ctx, instanceDir)
		if !ctx.Bool(skipLogsFlag.Name) {
			logDB = openLogDB(instanceDir)
		}
	} else {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		if !ctx.Bool(skipLogsFlag.Name) {
			logDB = openMemLogDB()
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	manual := clock.NewManual(0)
	l := openLedger(ctx, mainDB, gene, manual, logDB)
	defer l.Close()
	manual.Set(resumeTick(l))

	h := health.New(0)
	h.LedgerReady(true)

	svc := startServices(ctx, l, gene, manual, logLevel, h)
	defer svc.close()

	var tickInterval time.Duration
	if !ctx.Bool(onDemandFlag.Name) {
		seconds := ctx.Uint64(tickIntervalFlag.Name)
		if seconds == 0 {
			seconds = gene.TickInterval()
		}
		tickInterval = time.Duration(seconds) * time.Second
	}

	printSoloStartupMessage(gene, l, instanceDir, svc.apiURL, tickInterval)

	var goes co.Goes
	goes.GoCtx(func(ctx context.Context) {
		houseKeeping(ctx, l, h, 0, false)
	})
	if tickInterval > 0 {
		goes.GoCtx(func(ctx context.Context) {
			advanceTicks(ctx, manual, tickInterval)
		})
	}

	<-exitSignal.Done()
	goes.Stop()
	return nil
}

// resumeTick is the latest accrual tick of a persisted ledger, so a restarted
// solo clock never runs behind committed pool state.
func resumeTick(l *ledger.Ledger) uint64 {
	pools, err := l.Pools()
	if err != nil {
		fatal(fmt.Sprintf("read pools: %v", err))
	}
	var tick uint64
	for _, p := range pools {
		tick = max(tick, p.LastAccrualTick)
	}
	return tick
}

func genesisAction(ctx *cli.Context) error {
	data, err := yaml.Marshal(genesis.DevGenesis())
	if err != nil {
		return err
	}
	if out := ctx.String(outputFlag.Name); out != "" {
		if !strings.HasSuffix(out, ".yaml") && !strings.HasSuffix(out, ".yml") {
			out += ".yaml"
		}
		return os.WriteFile(out, data, 0o600)
	}
	_, err = os.Stdout.Write(data)
	return err
}
