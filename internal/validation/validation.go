// Package validation contains the logic for decoding and validating
// request data.
//
// It uses the `validator` library to enforce rules (like required
// fields) defined in struct tags and converts validation failures
// into a format the client can understand.
package validation
