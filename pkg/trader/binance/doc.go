// Package binance adapts the Binance spot REST API to the uniform
// trader interface.
//
// The package includes:
//   - Trader: the adapter itself, one instance per trading pair
//   - Normalizer: conversion between raw Binance payloads and canonical types
//   - request builders and HMAC-SHA256 signing for the REST protocol
//   - Markets: the static market metadata table
//
// Example usage:
//
//	config := core.DefaultConfig("USDT", "BTC").
//		WithCredentials(&core.Credentials{Key: key, Secret: secret})
//	tr, err := binance.New(config)
package binance
