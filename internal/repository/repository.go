// Package repository holds the SQL for every table.
//
// Repositories take a context on every call and return driver errors wrapped
// with sqlerr.WithTable, leaving their translation into HTTP errors to the
// global error handler.
package repository
