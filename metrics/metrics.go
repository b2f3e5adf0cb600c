package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "convonest_api_requests_total",
	Help: "Outbound backend API requests by endpoint and status code",
}, []string{"endpoint", "status"})

var OptimisticApplied = promauto.NewCounter(prometheus.CounterOpts{
	Name: "convonest_optimistic_mutations_applied_total",
	Help: "Optimistic cache edits applied ahead of server confirmation",
})

var OptimisticRolledBack = promauto.NewCounter(prometheus.CounterOpts{
	Name: "convonest_optimistic_mutations_rolled_back_total",
	Help: "Optimistic cache edits rolled back after a failed request",
})
