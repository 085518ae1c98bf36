package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts recorded submissions.
	SubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "learning_projects",
			Subsystem: "progress",
			Name:      "submissions_total",
			Help:      "Total number of project submissions recorded",
		},
	)

	// AssessmentsTotal counts recorded assessments.
	// Labels: outcome (passed, failed), assessor (ai, manual)
	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "learning_projects",
			Subsystem: "progress",
			Name:      "assessments_total",
			Help:      "Total number of assessments recorded",
		},
		[]string{"outcome", "assessor"},
	)

	// StatusCascadesTotal counts instance status changes derived from other records.
	// Labels: trigger (submission, assessment), status (the status written)
	StatusCascadesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "learning_projects",
			Subsystem: "progress",
			Name:      "status_cascades_total",
			Help:      "Total number of project instance status updates cascaded from submissions and assessments",
		},
		[]string{"trigger", "status"},
	)

	// EnrollmentsTotal counts created project instances.
	EnrollmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "learning_projects",
			Subsystem: "progress",
			Name:      "enrollments_total",
			Help:      "Total number of project instances created",
		},
	)
)

func outcomeLabel(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

func assessorLabel(byAI bool) string {
	if byAI {
		return "ai"
	}
	return "manual"
}
