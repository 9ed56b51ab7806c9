// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// A crawler logs URLs constantly, and URLs carry credentials: session
// identifiers in query strings, tokens in userinfo. The SecureHandler
// masks both whole attributes with sensitive key names and session-token
// parameter values embedded inside URL-valued attributes, so a shared or
// stored log never leaks a live session.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("url canonicalized",
//	    "url", "http://example.com/?jsessionid=abc123", // value masked
//	)
//
//	slog.SetDefault(logger)
package log
