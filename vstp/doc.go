// Package vstp decodes Very Short Term Plan schedule messages and keeps a
// per-day index of them keyed by train UID and headcode. Headcode lookups
// are last-write-wins because descriptions are reused; a daily rollover
// purges schedules whose validity window has passed.
package vstp
