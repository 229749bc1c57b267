// Package sanitizer normalizes free-form booking input before validation and
// storage.
//
// All functions are idempotent. Invalid input yields an empty string rather
// than an error so that the validator reports the problem with field context.
package sanitizer
