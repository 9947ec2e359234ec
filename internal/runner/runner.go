package runner

import (
	"context"
	"math"
	"time"

	"scalper_bot/internal/config"
	"scalper_bot/internal/helper"
	"scalper_bot/internal/metrics"
	"scalper_bot/internal/models"
	"scalper_bot/internal/notify"
	"scalper_bot/internal/strategy"
	"scalper_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// degradedSleep is the pause before retrying an iteration after a
// collaborator failure or a missing equity value.
const degradedSleep = 10 * time.Second

// Exchange is the full collaborator surface the loop drives.
type Exchange interface {
	CancelAllOrders(ctx context.Context, symbol string) error
	GetMaxLeverage(ctx context.Context, symbol string) (float64, error)
	GetMinOrderQty(ctx context.Context, symbol string) (float64, error)
	GetPriceTick(ctx context.Context, symbol string) (float64, error)
	SetLeverage(ctx context.Context, symbol string, leverage float64) error
	SetCrossMargin(ctx context.Context, symbol string, leverage float64) error
	GetOpenPositions(ctx context.Context) ([]models.PositionRecord, error)
	GetOpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error)
	GetBalance(ctx context.Context, coin string) (float64, error)
	GetAvailableBalance(ctx context.Context, coin string) (float64, error)
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
	GetFundingRate(ctx context.Context, symbol string) (float64, error)
	GetOpenTakeProfitOrderCounts(ctx context.Context, symbol string) (models.TPOrderCounts, error)
	GetRecentTrades(ctx context.Context, symbol string, since time.Time, limit int) ([]models.Trade, error)

	TakeProfitExchange
	InjectorExchange
}

// MetricsProvider is the market-metrics collaborator.
type MetricsProvider interface {
	GetMarketData(ctx context.Context, symbol string) (metrics.RawMarketData, error)
	ExtractMetrics(raw metrics.RawMarketData, symbol string) (models.MetricsSnapshot, error)
	GetMovingAverages(ctx context.Context, symbol string) (models.MovingAverages, error)
}

// StatusPublisher receives the per-iteration status record.
type StatusPublisher interface {
	Publish(ctx context.Context, st models.SymbolStatus)
}

// Loop runs the perpetual per-symbol trading cycle. One Loop serves every
// symbol; per-symbol mutual exclusion comes from the lock registry.
type Loop struct {
	cfg      *config.Config
	ex       Exchange
	metrics  MetricsProvider
	eval     strategy.EntryExitEvaluator
	initial  strategy.InitialEntryEvaluator
	locks    *LockRegistry
	equity   *EquityCache
	tp       *TakeProfitScheduler
	injector *TestOrderInjector // nil when test orders disabled
	pub      StatusPublisher
	notifier notify.Notifier

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool

	lastKnown *lastKnownPrices
}

func NewLoop(
	cfg *config.Config,
	ex Exchange,
	mp MetricsProvider,
	eval strategy.EntryExitEvaluator,
	initial strategy.InitialEntryEvaluator,
	locks *LockRegistry,
	equity *EquityCache,
	tp *TakeProfitScheduler,
	injector *TestOrderInjector,
	pub StatusPublisher,
	notifier notify.Notifier,
) *Loop {
	return &Loop{
		cfg:       cfg,
		ex:        ex,
		metrics:   mp,
		eval:      eval,
		initial:   initial,
		locks:     locks,
		equity:    equity,
		tp:        tp,
		injector:  injector,
		pub:       pub,
		notifier:  notifier,
		now:       time.Now,
		sleep:     sleepCtx,
		lastKnown: newLastKnownPrices(),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Run processes one symbol until blacklist termination or ctx cancel.
// Non-blocking on contention: if another worker holds the symbol, Run is a
// no-op for this dispatch.
func (l *Loop) Run(ctx context.Context, symbol string, rotation []string) {
	sym := helper.NormalizeSymbol(symbol)

	if !l.locks.TryAcquire(sym) {
		logger.Debug("lock busy for %s, dispatch skipped", sym)
		return
	}
	defer l.locks.Release(sym)

	logger.Info("lock acquired for %s", sym)
	if err := l.runSingle(ctx, sym, rotation); err != nil {
		logger.Error("loop for %s exited: %v", sym, err)
	}
	logger.Info("lock released for %s", sym)
}

// symbolState is the state that survives across iterations of one Run.
type symbolState struct {
	maxLeverage float64
	minQty      float64
	tick        float64

	prevSpread5m *float64

	nextLongTP  time.Time
	nextShortTP time.Time

	lastInjection time.Time

	// carried into the status record
	lastMetrics models.MetricsSnapshot
}

// runSingle is the state machine: Initializing once, then SteadyCycle until
// the blacklist transition or cancellation.
func (l *Loop) runSingle(ctx context.Context, sym string, rotation []string) error {
	st, err := l.initSymbol(ctx, sym)
	if err != nil {
		return err
	}

	for {
		res := l.iterate(ctx, sym, st, rotation)
		if res.terminated {
			return nil
		}
		if !l.sleep(ctx, res.sleep) {
			return ctx.Err()
		}
	}
}

// initSymbol is the Initializing state: clean out stale orders, pin leverage
// and margin mode, and log recent trade activity. A leverage/margin failure
// is escalated; the dispatcher may retry the symbol later.
func (l *Loop) initSymbol(ctx context.Context, sym string) (*symbolState, error) {
	st := &symbolState{}

	if err := l.ex.CancelAllOrders(ctx, sym); err != nil {
		logger.Warn("cancel stale orders for %s: %v", sym, err)
	}

	maxLev, err := retryCall(ctx, l.cfg.MaxRetries, l.cfg.RetryDelay, "max leverage", func(ctx context.Context) (float64, error) {
		return l.ex.GetMaxLeverage(ctx, sym)
	})
	if err != nil {
		return nil, err
	}
	st.maxLeverage = maxLev

	if err := l.ex.SetLeverage(ctx, sym, maxLev); err != nil {
		return nil, err
	}
	if err := l.ex.SetCrossMargin(ctx, sym, maxLev); err != nil {
		return nil, err
	}

	if minQty, err := l.ex.GetMinOrderQty(ctx, sym); err == nil {
		st.minQty = minQty
	} else {
		logger.Warn("min order qty for %s: %v", sym, err)
	}
	if tick, err := l.ex.GetPriceTick(ctx, sym); err == nil {
		st.tick = tick
	} else {
		logger.Warn("price tick for %s: %v", sym, err)
	}

	// informational only
	since := l.now().Add(-24 * time.Hour)
	if trades, err := l.ex.GetRecentTrades(ctx, sym, since, 20); err == nil {
		if len(trades) > 0 {
			logger.Info("recent trading activity detected for %s (%d trades)", sym, len(trades))
		} else {
			logger.Info("no recent trading activity for %s in the last 24h", sym)
		}
	}

	st.nextLongTP = l.tp.NextUpdateTime()
	st.nextShortTP = l.tp.NextUpdateTime()
	return st, nil
}

type iterationResult struct {
	terminated bool
	sleep      time.Duration
}

func skipFor(d time.Duration) iterationResult { return iterationResult{sleep: d} }

// iterate executes one SteadyCycle step: refresh state, pick a branch, act,
// publish. It never panics the process on a transient collaborator failure.
func (l *Loop) iterate(ctx context.Context, sym string, st *symbolState, rotation []string) iterationResult {
	span := opentracing.StartSpan("iteration")
	span.SetTag("symbol", sym)
	defer span.Finish()

	now := l.now()

	// 1. positions and orders, every iteration
	records, err := retryCall(ctx, l.cfg.MaxRetries, l.cfg.RetryDelay, "open positions", func(ctx context.Context) ([]models.PositionRecord, error) {
		return l.ex.GetOpenPositions(ctx)
	})
	if err != nil {
		logger.Warn("iteration for %s skipped: %v", sym, err)
		return skipFor(degradedSleep)
	}
	details := BuildPositionDetails(records)
	openSymbols := OpenSymbols(details)

	openOrders, err := retryCall(ctx, l.cfg.MaxRetries, l.cfg.RetryDelay, "open orders", func(ctx context.Context) ([]models.OpenOrder, error) {
		return l.ex.GetOpenOrders(ctx, sym)
	})
	if err != nil {
		logger.Warn("iteration for %s skipped: %v", sym, err)
		return skipFor(degradedSleep)
	}

	// 2. equity via the refresh gate; single-flight across loops, and sizing
	// depends on it, so an absent value defers the whole iteration
	if l.equity.TryBeginRefresh(l.cfg.EquityRefreshInterval, now) {
		total, tErr := retryCall(ctx, l.cfg.MaxRetries, l.cfg.RetryDelay, "balance", func(ctx context.Context) (float64, error) {
			return l.ex.GetBalance(ctx, l.cfg.QuoteCurrency)
		})
		avail, aErr := retryCall(ctx, l.cfg.MaxRetries, l.cfg.RetryDelay, "available balance", func(ctx context.Context) (float64, error) {
			return l.ex.GetAvailableBalance(ctx, l.cfg.QuoteCurrency)
		})
		if tErr != nil || aErr != nil || total <= 0 {
			l.equity.CancelRefresh()
			logger.Warn("failed to refresh equity, deferring iteration for %s", sym)
			l.notifier.Sendf("equity refresh failed, %s iteration deferred", sym)
			return skipFor(degradedSleep)
		}
		l.equity.FinishRefresh(total, avail, now)
		logger.Info("equity refreshed: total=%.2f available=%.2f", total, avail)
	}
	totalEquity, availEquity, _, ok := l.equity.Get()
	if !ok {
		// another loop holds the first-ever refresh; nothing to size with yet
		logger.Warn("equity not available yet, deferring iteration for %s", sym)
		return skipFor(degradedSleep)
	}

	// 3. blacklist is a terminal transition, checked before any mutation
	if l.cfg.IsBlacklisted(sym) {
		logger.Info("symbol %s is blacklisted, stopping operations", sym)
		l.notifier.Sendf("%s blacklisted, loop terminated", sym)
		return iterationResult{terminated: true}
	}

	// 4. funding condition and market snapshot
	fundingOK := true
	if rate, fErr := l.ex.GetFundingRate(ctx, sym); fErr == nil {
		fundingOK = math.Abs(rate) <= l.cfg.MaxAbsFundingRate
	} else {
		logger.Warn("funding check for %s failed, entries blocked this iteration: %v", sym, fErr)
		fundingOK = false
	}

	var currentPrice *float64
	if px, pErr := l.ex.GetCurrentPrice(ctx, sym); pErr == nil && px > 0 {
		currentPrice = helper.Ptr(px)
	}
	market := l.marketSnapshot(ctx, sym)

	// 5. branch selection
	pos := details[sym]
	if pos == nil {
		pos = &models.SymbolPositions{}
	}
	hasExposure := pos.HasExposure()
	inRotation := containsSymbol(rotation, sym)
	eligible := CanTradeNewSymbol(openSymbols, l.cfg.MaxSymbols, sym)

	var sleep time.Duration
	switch {
	case hasExposure:
		sleep = l.manageBranch(ctx, sym, st, pos, openOrders, market, totalEquity, fundingOK, now)
	case inRotation && eligible:
		sleep = l.prospectBranch(ctx, sym, st, openOrders, market, totalEquity, fundingOK)
	default:
		logger.Info("%s skipped: budget exhausted and no exposure (open=%d max=%d)", sym, len(openSymbols), l.cfg.MaxSymbols)
		sleep = l.cfg.ManageSleep
	}

	// 6. publish the status record
	l.pub.Publish(ctx, models.SymbolStatus{
		Symbol:        sym,
		MinQty:        st.minQty,
		CurrentPrice:  currentPrice,
		Balance:       totalEquity,
		AvailableBal:  availEquity,
		Volume:        st.lastMetrics.Volume5m,
		Spread:        st.lastMetrics.Spread5m,
		Trend:         st.lastMetrics.Trend,
		LongPosQty:    pos.Long.Qty,
		ShortPosQty:   pos.Short.Qty,
		LongUPnL:      pos.Long.UnrealizedPnL,
		ShortUPnL:     pos.Short.UnrealizedPnL,
		LongCumPnL:    pos.Long.CumRealizedPnL,
		ShortCumPnL:   pos.Short.CumRealizedPnL,
		LongPosPrice:  pos.Long.AvgPrice,
		ShortPosPrice: pos.Short.AvgPrice,
		UpdatedAt:     now,
	})

	return iterationResult{sleep: sleep}
}

// marketSnapshot reads the orderbook with last-known fallback: a side missing
// from the live book reuses the previous live value; with no prior value the
// field stays absent and dependent decisions skip.
func (l *Loop) marketSnapshot(ctx context.Context, sym string) models.MarketSnapshot {
	ob, err := l.ex.GetOrderbook(ctx, sym)
	if err != nil {
		logger.Warn("orderbook fetch for %s failed: %v", sym, err)
		return l.lastKnown.snapshot(sym)
	}

	var snap models.MarketSnapshot
	if len(ob.Bids) > 0 {
		snap.BestBid = helper.Ptr(ob.Bids[0][0])
		l.lastKnown.setBid(sym, ob.Bids[0][0])
	} else {
		snap.BestBid = l.lastKnown.bid(sym)
	}
	if len(ob.Asks) > 0 {
		snap.BestAsk = helper.Ptr(ob.Asks[0][0])
		l.lastKnown.setAsk(sym, ob.Asks[0][0])
	} else {
		snap.BestAsk = l.lastKnown.ask(sym)
	}
	return snap
}

// manageBranch services a symbol with open exposure: sizing, leverage,
// entry/add-to evaluation, take-profit maintenance, stale-entry cleanup.
func (l *Loop) manageBranch(
	ctx context.Context,
	sym string,
	st *symbolState,
	pos *models.SymbolPositions,
	openOrders []models.OpenOrder,
	market models.MarketSnapshot,
	totalEquity float64,
	fundingOK bool,
	now time.Time,
) time.Duration {
	m, ma, ok := l.fetchSignals(ctx, sym, st)
	if !ok {
		return degradedSleep
	}

	if err := l.ex.SetLeverage(ctx, sym, st.maxLeverage); err != nil {
		logger.Warn("set leverage for %s: %v", sym, err)
	}

	longAmount, shortAmount := l.dynamicAmounts(st, totalEquity, market)

	shouldLong := fundingOK && market.BestBid != nil && *market.BestBid < ma.MA3Low
	shouldShort := fundingOK && market.BestAsk != nil && *market.BestAsk > ma.MA3High

	// add-to requires the existing entry on the favorable side of the longer
	// band plus the standard condition against the wider band
	shouldAddLong := pos.Long.AvgPrice != nil && *pos.Long.AvgPrice > ma.MA6High &&
		fundingOK && market.BestBid != nil && *market.BestBid < ma.MA6Low
	shouldAddShort := pos.Short.AvgPrice != nil && *pos.Short.AvgPrice < ma.MA6Low &&
		fundingOK && market.BestAsk != nil && *market.BestAsk > ma.MA6High

	if l.injector != nil {
		st.lastInjection = l.injector.MaybeInject(ctx, sym, shortAmount, longAmount, now, st.lastInjection)
	}

	if market.BestBid != nil && market.BestAsk != nil {
		err := l.eval.Evaluate(ctx, sym, strategy.EntryInputs{
			OpenOrders:              openOrders,
			Trend:                   m.Trend,
			Signal:                  m.Signal,
			ERITrend:                m.ERITrend,
			Volume5m:                m.Volume5m,
			Spread5m:                m.Spread5m,
			MinVolume:               l.cfg.MinVolume,
			MinDistance:             l.cfg.MinDistance,
			LongAmount:              longAmount,
			ShortAmount:             shortAmount,
			LongQty:                 pos.Long.Qty,
			ShortQty:                pos.Short.Qty,
			LongPrice:               pos.Long.AvgPrice,
			ShortPrice:              pos.Short.AvgPrice,
			ShouldLong:              shouldLong,
			ShouldShort:             shouldShort,
			ShouldAddLong:           shouldAddLong,
			ShouldAddShort:          shouldAddShort,
			HedgeRatio:              l.cfg.HedgeRatio,
			HedgePriceDiffThreshold: l.cfg.HedgePriceDiffThreshold,
			BestBid:                 *market.BestBid,
			BestAsk:                 *market.BestAsk,
		})
		if err != nil {
			logger.Warn("entry/exit evaluation for %s: %v", sym, err)
		}
	} else {
		logger.Warn("market data missing for %s, trading decisions skipped", sym)
	}

	l.maintainTakeProfits(ctx, sym, st, pos, openOrders, m, now)

	l.cancelStaleEntries(ctx, sym, openOrders, market, ma)

	st.prevSpread5m = helper.Ptr(m.Spread5m)
	st.lastMetrics = m
	return l.cfg.ManageSleep
}

// prospectBranch evaluates initial entries for a symbol with no position yet.
func (l *Loop) prospectBranch(
	ctx context.Context,
	sym string,
	st *symbolState,
	openOrders []models.OpenOrder,
	market models.MarketSnapshot,
	totalEquity float64,
	fundingOK bool,
) time.Duration {
	m, ma, ok := l.fetchSignals(ctx, sym, st)
	if !ok {
		return degradedSleep
	}

	if err := l.ex.SetLeverage(ctx, sym, st.maxLeverage); err != nil {
		logger.Warn("set leverage for %s: %v", sym, err)
	}

	longAmount, shortAmount := l.dynamicAmounts(st, totalEquity, market)

	shouldLong := fundingOK && market.BestBid != nil && *market.BestBid < ma.MA3Low
	shouldShort := fundingOK && market.BestAsk != nil && *market.BestAsk > ma.MA3High

	if market.BestBid != nil && market.BestAsk != nil {
		err := l.initial.EvaluateInitial(ctx, sym, strategy.InitialEntryInputs{
			OpenOrders:  openOrders,
			Trend:       m.Trend,
			Signal:      m.Signal,
			HMATrend:    m.HMATrend,
			ERITrend:    m.ERITrend,
			Volume5m:    m.Volume5m,
			Spread5m:    m.Spread5m,
			MinVolume:   l.cfg.MinVolume,
			MinDistance: l.cfg.MinDistance,
			LongAmount:  longAmount,
			ShortAmount: shortAmount,
			ShouldLong:  shouldLong,
			ShouldShort: shouldShort,
			BestBid:     *market.BestBid,
			BestAsk:     *market.BestAsk,
		})
		if err != nil {
			logger.Warn("initial entry evaluation for %s: %v", sym, err)
		}
	} else {
		logger.Warn("market data missing for %s, initial entry skipped", sym)
	}

	st.prevSpread5m = helper.Ptr(m.Spread5m)
	st.lastMetrics = m
	return l.cfg.ProspectSleep
}

// fetchSignals pulls metrics and MA bands; either failing skips the branch.
func (l *Loop) fetchSignals(ctx context.Context, sym string, st *symbolState) (models.MetricsSnapshot, models.MovingAverages, bool) {
	raw, err := retryCall(ctx, l.cfg.MaxRetries, l.cfg.RetryDelay, "market data", func(ctx context.Context) (metrics.RawMarketData, error) {
		return l.metrics.GetMarketData(ctx, sym)
	})
	if err != nil {
		logger.Warn("metrics fetch for %s skipped branch: %v", sym, err)
		return models.MetricsSnapshot{}, models.MovingAverages{}, false
	}
	m, err := l.metrics.ExtractMetrics(raw, sym)
	if err != nil {
		logger.Warn("metrics extract for %s skipped branch: %v", sym, err)
		return models.MetricsSnapshot{}, models.MovingAverages{}, false
	}
	ma, err := retryCall(ctx, l.cfg.MaxRetries, l.cfg.RetryDelay, "moving averages", func(ctx context.Context) (models.MovingAverages, error) {
		return l.metrics.GetMovingAverages(ctx, sym)
	})
	if err != nil {
		logger.Warn("moving averages for %s skipped branch: %v", sym, err)
		return models.MetricsSnapshot{}, models.MovingAverages{}, false
	}
	return m, ma, true
}

// dynamicAmounts sizes orders from equity, price and leverage, floored at the
// instrument minimum and capped by the max USD value.
func (l *Loop) dynamicAmounts(st *symbolState, totalEquity float64, market models.MarketSnapshot) (longAmount, shortAmount float64) {
	price := 0.0
	if market.BestAsk != nil {
		price = *market.BestAsk
	} else if market.BestBid != nil {
		price = *market.BestBid
	}
	if price <= 0 || totalEquity <= 0 {
		return 0, 0
	}

	notional := totalEquity * l.cfg.WalletExposure * st.maxLeverage
	if l.cfg.MaxUSDValue > 0 && notional > l.cfg.MaxUSDValue {
		notional = l.cfg.MaxUSDValue
	}
	amount := notional / price
	if amount < st.minQty {
		amount = st.minQty
	}
	return amount, amount
}

// maintainTakeProfits enforces the one-TP-per-side invariant and runs the
// timed re-quote check.
func (l *Loop) maintainTakeProfits(
	ctx context.Context,
	sym string,
	st *symbolState,
	pos *models.SymbolPositions,
	openOrders []models.OpenOrder,
	m models.MetricsSnapshot,
	now time.Time,
) {
	shortTP, longTP := l.tp.ComputeTargets(sym, pos.Short.AvgPrice, pos.Long.AvgPrice, m.Spread5m, st.prevSpread5m)
	shortTP = roundTarget(models.Short, shortTP, st.tick)
	longTP = roundTarget(models.Long, longTP, st.tick)

	counts, err := retryCall(ctx, l.cfg.MaxRetries, l.cfg.RetryDelay, "tp order counts", func(ctx context.Context) (models.TPOrderCounts, error) {
		return l.ex.GetOpenTakeProfitOrderCounts(ctx, sym)
	})
	if err != nil {
		logger.Warn("tp maintenance for %s skipped: %v", sym, err)
		return
	}

	l.maintainSideTP(ctx, sym, st, pos, openOrders, m, now, models.Long, 1, longTP, shortTP, &st.nextLongTP, counts.Long)
	l.maintainSideTP(ctx, sym, st, pos, openOrders, m, now, models.Short, 2, shortTP, longTP, &st.nextShortTP, counts.Short)
}

// maintainSideTP places one side's take-profit when it holds quantity, has a
// target and has zero resting take-profits; otherwise runs the timed re-quote
// check. An iteration that placed never also re-quotes: the fresh order is not
// in this iteration's open-orders view, so a reschedule here would stack a
// second take-profit on the side.
func (l *Loop) maintainSideTP(
	ctx context.Context,
	sym string,
	st *symbolState,
	pos *models.SymbolPositions,
	openOrders []models.OpenOrder,
	m models.MetricsSnapshot,
	now time.Time,
	side models.PositionSide,
	positionIdx int,
	target, counterTarget *float64,
	nextUpdate *time.Time,
	openTPCount int,
) {
	summary := pos.Side(side)
	if summary.Qty <= 0 || target == nil {
		return
	}

	if openTPCount == 0 {
		if err := l.ex.PlaceTakeProfitOrder(ctx, sym, summary.Qty, *target, side, positionIdx, openOrders); err != nil {
			logger.Warn("place %s tp for %s: %v", side, sym, err)
		} else {
			logger.Info("%s tp placed for %s at %.6f", side, sym, *target)
		}
		*nextUpdate = l.tp.NextUpdateTime()
		return
	}

	if now.Before(*nextUpdate) {
		return
	}
	counter := pos.Side(counterSide(side))
	next, err := l.tp.MaybeReschedule(ctx, l.ex, RescheduleRequest{
		Symbol:            sym,
		Side:              side,
		Qty:               summary.Qty,
		Target:            target,
		CounterTarget:     counterTarget,
		EntryPrice:        summary.AvgPrice,
		CounterEntryPrice: counter.AvgPrice,
		NextUpdate:        *nextUpdate,
		Spread:            m.Spread5m,
		PrevSpread:        st.prevSpread5m,
		OpenOrders:        openOrders,
		PositionIdx:       positionIdx,
	})
	if err != nil {
		logger.Warn("%s tp reschedule for %s: %v", side, sym, err)
	}
	*nextUpdate = next
}

func counterSide(side models.PositionSide) models.PositionSide {
	if side == models.Long {
		return models.Short
	}
	return models.Long
}

// roundTarget snaps a take-profit price onto the instrument grid: the long
// side closes with a sell, rounded up, the short side with a buy, rounded
// down. A zero tick passes the price through.
func roundTarget(side models.PositionSide, target *float64, tick float64) *float64 {
	if target == nil || tick <= 0 {
		return target
	}
	if side == models.Long {
		return helper.Ptr(helper.RoundUpToTick(*target, tick))
	}
	return helper.Ptr(helper.RoundDownToTick(*target, tick))
}

// cancelStaleEntries drops resting dip-buy entries once price has run above
// both MA highs, invalidating the band they were quoted against.
func (l *Loop) cancelStaleEntries(ctx context.Context, sym string, openOrders []models.OpenOrder, market models.MarketSnapshot, ma models.MovingAverages) {
	if market.BestAsk == nil {
		return
	}
	if *market.BestAsk <= ma.MA1m3High || *market.BestAsk <= ma.MA5m3High {
		return
	}
	for _, o := range openOrders {
		if o.ReduceOnly || o.Side != "Buy" {
			continue
		}
		if err := l.ex.CancelOrder(ctx, sym, o.OrderID); err != nil {
			logger.Warn("stale entry cancel for %s: %v", sym, err)
		} else {
			logger.Info("stale entry %s cancelled for %s", o.OrderID, sym)
		}
	}
}

func containsSymbol(list []string, sym string) bool {
	for _, s := range list {
		if helper.NormalizeSymbol(s) == sym {
			return true
		}
	}
	return false
}
