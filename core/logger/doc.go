// Package logger records shell session events as newline delimited JSON and
// aggregates them into reports.
package logger
