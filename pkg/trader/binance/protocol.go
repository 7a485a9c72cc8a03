package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"resty.dev/v3"

	"nakula/pkg/core"
)

const (
	// ProductionURL is the Binance spot REST endpoint.
	ProductionURL = "https://api.binance.com"
	// SandboxURL is the Binance spot testnet endpoint.
	SandboxURL = "https://testnet.binance.vision"

	exchangeName = "binance"

	// tradeWindow bounds a since-based trade history query.
	tradeWindow = time.Hour
	// fillFetchLimit is how many recent account trades are scanned
	// when aggregating the fills of one order.
	fillFetchLimit = 500
	// recvWindow is the signed-request validity window in ms.
	recvWindow = "5000"
)

// request describes one Binance REST call before execution.
type request struct {
	method string
	path   string
	query  map[string]string
	weight int
	signed bool
}

// baseURL returns the REST endpoint for the given environment.
func baseURL(sandbox bool) string {
	if sandbox {
		return SandboxURL
	}
	return ProductionURL
}

func newTradesRequest(pair string, since time.Time) *request {
	req := &request{
		method: http.MethodGet,
		path:   "/api/v3/aggTrades",
		query:  map[string]string{"symbol": pair},
		weight: 2,
	}

	if !since.IsZero() {
		end := since.Add(tradeWindow)
		if now := time.Now(); end.After(now) {
			end = now
		}
		req.query["startTime"] = strconv.FormatInt(since.UnixMilli(), 10)
		req.query["endTime"] = strconv.FormatInt(end.UnixMilli(), 10)
	}

	return req
}

func newAccountRequest() *request {
	return &request{
		method: http.MethodGet,
		path:   "/api/v3/account",
		query:  map[string]string{},
		weight: 10,
		signed: true,
	}
}

// newTickerRequest queries the book ticker of every symbol; the bound
// pair is picked out of the snapshot afterwards.
func newTickerRequest() *request {
	return &request{
		method: http.MethodGet,
		path:   "/api/v3/ticker/bookTicker",
		query:  map[string]string{},
		weight: 4,
	}
}

func newOrderRequest(pair string, side core.OrderSide, amount, price string) *request {
	return &request{
		method: http.MethodPost,
		path:   "/api/v3/order",
		query: map[string]string{
			"symbol":      pair,
			"side":        side.String(),
			"type":        "LIMIT",
			"timeInForce": "GTC",
			"quantity":    amount,
			"price":       price,
		},
		weight: 1,
		signed: true,
	}
}

func newQueryOrderRequest(pair, orderID string) *request {
	return &request{
		method: http.MethodGet,
		path:   "/api/v3/order",
		query: map[string]string{
			"symbol":  pair,
			"orderId": orderID,
		},
		weight: 2,
		signed: true,
	}
}

func newCancelOrderRequest(pair, orderID string) *request {
	return &request{
		method: http.MethodDelete,
		path:   "/api/v3/order",
		query: map[string]string{
			"symbol":  pair,
			"orderId": orderID,
		},
		weight: 1,
		signed: true,
	}
}

func newMyTradesRequest(pair string) *request {
	return &request{
		method: http.MethodGet,
		path:   "/api/v3/myTrades",
		query: map[string]string{
			"symbol": pair,
			"limit":  strconv.Itoa(fillFetchLimit),
		},
		weight: 10,
		signed: true,
	}
}

// signQuery adds timestamp, recvWindow and the HMAC-SHA256 signature
// over the encoded query string.
func signQuery(query url.Values, creds *core.Credentials) url.Values {
	query.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query.Set("recvWindow", recvWindow)
	query.Set("signature", signHMAC(query.Encode(), creds.Secret))
	return query
}

func signHMAC(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// binanceAPIError is the error payload shape returned by the exchange.
type binanceAPIError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// parseResponse checks an HTTP response for an exchange error and
// returns the raw body on success. A decodable {code,msg} payload
// counts as an error only when the code is non-zero; classification
// follows the structured code and status. Error bodies without a
// recognizable payload classify by status alone.
func parseResponse(resp *resty.Response) ([]byte, error) {
	if resp == nil {
		return nil, core.Classify(exchangeName, errors.New("nil response"))
	}

	body := resp.Bytes()
	if resp.StatusCode() >= 400 {
		var apiErr binanceAPIError
		if err := sonic.Unmarshal(body, &apiErr); err == nil && apiErr.Code != 0 {
			return nil, core.NewAPIError(exchangeName, resp.StatusCode(), apiErr.Code, apiErr.Msg)
		}
		return nil, core.NewAPIError(exchangeName, resp.StatusCode(), 0, fmt.Sprintf("HTTP error: %s", resp.Status()))
	}

	return body, nil
}

// unknownOrderCode is returned when cancelling an order the exchange
// no longer knows, which for a previously accepted id means it was
// already filled.
const unknownOrderCode = -2011

// isUnknownOrder detects the unknown-order signature on a cancel
// failure.
func isUnknownOrder(err error) bool {
	var te *core.TraderError
	if errors.As(err, &te) {
		if te.Code == unknownOrderCode {
			return true
		}
		return strings.Contains(te.Message, "Unknown order") || strings.Contains(te.Message, "UNKNOWN_ORDER")
	}
	return false
}
