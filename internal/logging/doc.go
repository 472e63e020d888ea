// Package logging builds the application's slog loggers and defines the
// standardized structured field keys used across components.
//
// Components never construct handlers themselves; they receive a *slog.Logger
// and scope it with NewComponentLogger. Field keys are shared constants so
// log output stays queryable.
package logging
