package main

const (
	DefaultFormat  = "csv"
	DefaultWorkers = 4

	// Extension of pre-normalized tick spools produced by cmd/spool.
	SpoolExtension = ".spool"
)
