package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"nakula/internal/circuitbreaker"
	httpClient "nakula/internal/http"
	"nakula/internal/ratelimit"
	"nakula/internal/retry"
	"nakula/pkg/core"
	"nakula/pkg/market"
	"nakula/pkg/trader"
)

// Trader adapts the Binance spot REST API to the uniform trader
// interface. An instance is bound at construction to one
// currency/asset pair and its immutable market descriptor; it holds no
// other state across operations.
type Trader struct {
	config         *core.Config
	market         market.Market
	httpClient     *httpClient.Client
	rateLimiter    *ratelimit.Limiter
	circuitBreaker *circuitbreaker.Breaker
	retryPolicy    retry.Policy
	logger         zerolog.Logger
	normalizer     *Normalizer
}

var _ trader.Trader = (*Trader)(nil)

// Option is a functional option for configuring the Trader.
type Option func(*Options)

// Options holds construction options for the Trader.
type Options struct {
	Logger  zerolog.Logger
	Markets market.Table
	BaseURL string
}

// WithLogger returns an option that sets the logger for the adapter.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMarkets returns an option that overrides the static market
// table, mainly for tests.
func WithMarkets(t market.Table) Option {
	return func(o *Options) {
		o.Markets = t
	}
}

// WithBaseURL returns an option that overrides the REST endpoint,
// mainly for tests against a local server.
func WithBaseURL(u string) Option {
	return func(o *Options) {
		o.BaseURL = u
	}
}

// New creates a Binance trader bound to the configured pair. The
// market descriptor is resolved once here; a pair missing from the
// market table is a configuration error, never a nil descriptor at
// first use.
func New(config *core.Config, opts ...Option) (*Trader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger:  zerolog.Nop(),
		Markets: Markets,
	}
	for _, opt := range opts {
		opt(options)
	}

	m, err := options.Markets.Lookup(config.Asset, config.Currency)
	if err != nil {
		return nil, fmt.Errorf("bind market: %w", err)
	}

	endpoint := options.BaseURL
	if endpoint == "" {
		endpoint = baseURL(config.Sandbox)
	}

	client, err := httpClient.NewClient(&httpClient.Config{
		BaseURL: endpoint,
		Timeout: config.Timeout,
	}, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	var rl *ratelimit.Limiter
	if config.RateLimitRequests > 0 {
		rl = ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod)
	}

	var cb *circuitbreaker.Breaker
	if config.CircuitBreakerEnabled {
		cb = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    config.CircuitBreakerFailThreshold,
			SuccessThreshold: config.CircuitBreakerSuccessThreshold,
			Timeout:          config.CircuitBreakerTimeout,
		})
	}

	return &Trader{
		config:         config,
		market:         m,
		httpClient:     client,
		rateLimiter:    rl,
		circuitBreaker: cb,
		retryPolicy: retry.Policy{
			MaxAttempts: config.MaxRetries + 1,
			WaitMin:     config.RetryWaitMin,
			WaitMax:     config.RetryWaitMax,
		},
		logger:     options.Logger,
		normalizer: NewNormalizer(),
	}, nil
}

// Name returns the adapter identifier "binance".
func (t *Trader) Name() string {
	return exchangeName
}

// Capabilities returns the static capability descriptor.
func (t *Trader) Capabilities() trader.Capabilities {
	return Capabilities()
}

// Market returns the bound market descriptor.
func (t *Trader) Market() market.Market {
	return t.market
}

// Close releases resources used by the adapter.
func (t *Trader) Close() error {
	if t.httpClient != nil {
		return t.httpClient.Close()
	}
	return nil
}

// Trades fetches recent aggregated trades for the bound pair. A
// non-zero since queries the window [since, since+1h] clipped to now.
// The exchange returns trades oldest first; descending reverses them.
func (t *Trader) Trades(ctx context.Context, since time.Time, descending bool) ([]core.Trade, error) {
	body, err := t.fetch(ctx, newTradesRequest(t.market.Pair, since))
	if err != nil {
		return nil, err
	}

	var data []binanceAggTrade
	if err := sonic.Unmarshal(body, &data); err != nil {
		return nil, core.Classify(exchangeName, fmt.Errorf("unmarshal trades: %w", err))
	}

	trades := t.normalizer.NormalizeTrades(data)
	if descending {
		slices.Reverse(trades)
	}
	return trades, nil
}

// Portfolio reads the current free balances of the bound asset and
// currency. The snapshot is never cached.
func (t *Trader) Portfolio(ctx context.Context) (core.Portfolio, error) {
	body, err := t.fetch(ctx, newAccountRequest())
	if err != nil {
		return core.Portfolio{}, err
	}

	var account binanceAccount
	if err := sonic.Unmarshal(body, &account); err != nil {
		return core.Portfolio{}, core.Classify(exchangeName, fmt.Errorf("unmarshal account: %w", err))
	}

	return t.normalizer.NormalizePortfolio(&account, t.config.Asset, t.config.Currency), nil
}

// Fee returns the maker fee rate as a fraction. This is a static
// approximation that ignores fee-discount tokens and volume tiers.
func (t *Trader) Fee(ctx context.Context) (float64, error) {
	return makerFeePercent / 100, nil
}

// Ticker returns the current best ask and bid for the bound pair out
// of the all-symbol book ticker snapshot.
func (t *Trader) Ticker(ctx context.Context) (core.Ticker, error) {
	body, err := t.fetch(ctx, newTickerRequest())
	if err != nil {
		return core.Ticker{}, err
	}

	var data []binanceBookTicker
	if err := sonic.Unmarshal(body, &data); err != nil {
		return core.Ticker{}, core.Classify(exchangeName, fmt.Errorf("unmarshal ticker: %w", err))
	}

	for i := range data {
		if data[i].Symbol == t.market.Pair {
			return t.normalizer.NormalizeTicker(&data[i]), nil
		}
	}
	return core.Ticker{}, core.Classify(exchangeName, fmt.Errorf("pair %s not in ticker response", t.market.Pair))
}

// Buy places a limit buy order and returns the opaque order id.
// Amount and price are passed through verbatim; the caller must have
// rounded them to the market's tick sizes already.
func (t *Trader) Buy(ctx context.Context, amount, price float64) (string, error) {
	return t.submit(ctx, core.SideBuy, amount, price)
}

// Sell places a limit sell order under the same contract as Buy.
func (t *Trader) Sell(ctx context.Context, amount, price float64) (string, error) {
	return t.submit(ctx, core.SideSell, amount, price)
}

func (t *Trader) submit(ctx context.Context, side core.OrderSide, amount, price float64) (string, error) {
	req := newOrderRequest(t.market.Pair, side, formatFloat(amount), formatFloat(price))
	body, err := t.fetch(ctx, req)
	if err != nil {
		return "", err
	}

	var order binanceOrder
	if err := sonic.Unmarshal(body, &order); err != nil {
		return "", core.Classify(exchangeName, fmt.Errorf("unmarshal order: %w", err))
	}

	id := opaqueID(order.OrderID)
	if id == "" {
		return "", core.Classify(exchangeName, fmt.Errorf("order response carries no order id"))
	}

	t.logger.Info().
		Str("pair", t.market.Pair).
		Str("side", side.String()).
		Str("order_id", id).
		Msg("order placed")

	return id, nil
}

// Order aggregates all fills belonging to the given order id from the
// most recent account trades, computing the weighted-average price,
// the per-currency fee totals and the approximate fee percentage.
func (t *Trader) Order(ctx context.Context, id string) (core.OrderSummary, error) {
	body, err := t.fetch(ctx, newMyTradesRequest(t.market.Pair))
	if err != nil {
		return core.OrderSummary{}, err
	}

	var fills []binanceMyTrade
	if err := sonic.Unmarshal(body, &fills); err != nil {
		return core.OrderSummary{}, core.Classify(exchangeName, fmt.Errorf("unmarshal trades: %w", err))
	}

	summary, err := t.normalizer.NormalizeOrderSummary(fills, id, t.config.Asset, t.config.Currency)
	if err != nil {
		return core.OrderSummary{}, core.Classify(exchangeName, err)
	}
	return summary, nil
}

// CheckOrder re-fetches and normalizes the live status of the given
// order. An unrecognized status fails loudly; it signals a contract
// change on the exchange side, not a recoverable condition.
func (t *Trader) CheckOrder(ctx context.Context, id string) (core.OrderState, error) {
	body, err := t.fetch(ctx, newQueryOrderRequest(t.market.Pair, id))
	if err != nil {
		return core.OrderState{}, err
	}

	var order binanceOrder
	if err := sonic.Unmarshal(body, &order); err != nil {
		return core.OrderState{}, core.Classify(exchangeName, fmt.Errorf("unmarshal order: %w", err))
	}

	state, err := t.normalizer.NormalizeOrderState(&order)
	if err != nil {
		return core.OrderState{}, core.Classify(exchangeName, err)
	}
	return state, nil
}

// CancelOrder cancels the given order. The exchange reporting an
// unknown order means the cancel came after the fill; that is a
// result, reported as true, not an error.
func (t *Trader) CancelOrder(ctx context.Context, id string) (bool, error) {
	_, err := t.fetch(ctx, newCancelOrderRequest(t.market.Pair, id))
	if err != nil {
		if isUnknownOrder(err) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// RoundPrice truncates a price to the market's price tick size.
func (t *Trader) RoundPrice(price float64) string {
	return t.market.RoundPrice(price)
}

// RoundAmount truncates an amount to the market's lot tick size.
func (t *Trader) RoundAmount(amount float64) string {
	return t.market.RoundAmount(amount)
}

// OutbidPrice nudges a price by one tick in the given direction.
func (t *Trader) OutbidPrice(price float64, up bool) string {
	return t.market.OutbidPrice(price, up)
}

// ValidPrice reports whether price meets the market minimum.
func (t *Trader) ValidPrice(price float64) bool {
	return t.market.ValidPrice(price)
}

// ValidLot reports whether price*amount meets the minimum notional.
func (t *Trader) ValidLot(price, amount float64) bool {
	return t.market.ValidLot(price, amount)
}

// fetch executes one request, re-attempting while the failure is
// classified transient. Signed requests are re-signed per attempt so
// the timestamp stays fresh.
func (t *Trader) fetch(ctx context.Context, req *request) ([]byte, error) {
	var body []byte
	err := retry.Do(ctx, t.retryPolicy, func(ctx context.Context) error {
		b, err := t.do(ctx, req)
		if err != nil {
			return err
		}
		body = b
		return nil
	}, core.IsRetryable)
	return body, err
}

// do performs exactly one API call: rate limit, breaker gate, HTTP
// round trip, error extraction. Every failure leaves classified.
func (t *Trader) do(ctx context.Context, req *request) ([]byte, error) {
	if t.rateLimiter != nil {
		if err := t.rateLimiter.WaitN(ctx, req.weight); err != nil {
			return nil, core.Classify(exchangeName, fmt.Errorf("rate limit: %w", err))
		}
	}

	if t.circuitBreaker != nil && !t.circuitBreaker.Allow() {
		return nil, core.NewTransientError(exchangeName, core.ErrCircuitBreakerOpen)
	}

	var resp *resty.Response
	var err error
	if req.signed {
		resp, err = t.doSigned(ctx, req)
	} else {
		resp, err = t.doPublic(ctx, req)
	}

	if t.circuitBreaker != nil {
		t.circuitBreaker.Record(err == nil)
	}
	if err != nil {
		return nil, core.Classify(exchangeName, err)
	}

	return parseResponse(resp)
}

func (t *Trader) doPublic(ctx context.Context, req *request) (*resty.Response, error) {
	opts := []httpClient.RequestOption{httpClient.WithQueryParams(req.query)}

	switch req.method {
	case http.MethodGet:
		return t.httpClient.Get(ctx, req.path, opts...)
	default:
		return nil, fmt.Errorf("unsupported method: %s", req.method)
	}
}

func (t *Trader) doSigned(ctx context.Context, req *request) (*resty.Response, error) {
	if t.config.Credentials == nil {
		return nil, core.ErrNoCredentials
	}

	query := url.Values{}
	for k, v := range req.query {
		query.Set(k, v)
	}
	query = signQuery(query, t.config.Credentials)

	restyReq := t.httpClient.Request().
		SetContext(ctx).
		SetHeader("X-MBX-APIKEY", t.config.Credentials.Key).
		SetQueryParamsFromValues(query)

	switch req.method {
	case http.MethodGet:
		return restyReq.Get(req.path)
	case http.MethodPost:
		return restyReq.Post(req.path)
	case http.MethodDelete:
		return restyReq.Delete(req.path)
	default:
		return nil, fmt.Errorf("unsupported method: %s", req.method)
	}
}

// Register creates a Binance trader and registers it with the
// registry. Convenience for dependency injection setup.
func Register(registry *trader.Registry, config *core.Config, opts ...Option) error {
	tr, err := New(config, opts...)
	if err != nil {
		return fmt.Errorf("create binance trader: %w", err)
	}
	registry.Register(exchangeName, tr)
	return nil
}
