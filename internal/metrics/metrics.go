// Package metrics exposes Prometheus counters for environment assembly.
//
// Counters are registered on the default registry; a scraping surface is up
// to the embedding process (CI runners typically read the textfile export).
package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "envbuilder"

var (
	// AssembliesTotal counts environment assemblies by outcome
	// (success|empty|failed).
	AssembliesTotal = promauto.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "assemblies_total",
		Help:      "Environment assemblies by final outcome",
	}, []string{"outcome"})

	// DownloadsTotal counts project downloads by result (success|failure).
	DownloadsTotal = promauto.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "downloads_total",
		Help:      "Project source downloads by result",
	}, []string{"result"})

	// BranchSourceTotal counts which step of the branch resolution chain
	// produced the active branch.
	BranchSourceTotal = promauto.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "branch_source_total",
		Help:      "Branch resolution decisions by signal source",
	}, []string{"source"})
)

// Outcome labels for AssembliesTotal.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)

// Result labels for DownloadsTotal.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)
