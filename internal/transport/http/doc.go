// Package http contains the HTTP transport layer.
//
// # Architecture
//
// Handlers depend on the StudentService interface, parse and validate
// request parameters, and translate domain results into wire shapes. Domain
// float columns that can carry the NaN sentinel are mapped to nullable JSON
// fields here; the domain keeps NaN, the wire gets null.
//
// Error responses follow RFC 7807 via the errors package ErrorHandler.
package http
